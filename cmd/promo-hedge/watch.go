package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/promo-hedge/internal/health"
	"github.com/yourusername/promo-hedge/internal/metrics"
	"github.com/yourusername/promo-hedge/internal/scheduler"
	"github.com/yourusername/promo-hedge/internal/service"
)

func newWatchCmd() *cobra.Command {
	var (
		cronExpr string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan on a schedule and serve the latest results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cron") {
				cfg.Schedule.Cron = cronExpr
			}
			if cmd.Flags().Changed("port") {
				cfg.Metrics.Port = port
			}
			if err := validateConfig(); err != nil {
				return err
			}
			return runWatch()
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression overriding schedule.cron")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port overriding metrics.port")

	return cmd
}

func runWatch() error {
	req, err := service.RequestFromConfig(cfg.Scan)
	if err != nil {
		return invalid(err)
	}

	scanner, err := buildScanner()
	if err != nil {
		return err
	}

	port := ""
	if cfg.Metrics.Port > 0 {
		port = strconv.Itoa(cfg.Metrics.Port)
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsPath = cfg.Metrics.Path
	}

	server := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        port,
		Logger:      appLog,
		Results:     scanner,
		MetricsPath: metricsPath,
	})

	sched := newScheduler(scanner)
	onResult := func(result *service.ScanResult) {
		if !result.Failed() {
			server.SetReady(true)
		}
		appLog.WithFields(logrus.Fields{
			"scan_id":       result.ID,
			"opportunities": len(result.Opportunities),
			"sport_errors":  len(result.SportErrors),
		}).Info("Scan completed")
	}

	if _, err := sched.ScheduleScan(cfg.Schedule.Cron, req, onResult); err != nil {
		return invalid(fmt.Errorf("schedule.cron: %w", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// first scan runs immediately so /ready does not wait for the first tick
	go sched.RunNow(ctx, req, onResult)

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"cron":     cfg.Schedule.Cron,
		"timeout":  cfg.Schedule.JobTimeout(),
		"port":     port,
		"source":   req.SourceBook,
		"strategy": req.Strategy,
		"next_run": sched.GetNextRun(),
	}).Info("Watching for opportunities")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	return nil
}

func newScheduler(scanner scheduler.Scanner) *scheduler.Scheduler {
	sched := scheduler.NewScheduler(scanner, appLog)
	if t := cfg.Schedule.JobTimeout(); t > 0 {
		sched.SetJobTimeout(t)
	}
	return sched
}
