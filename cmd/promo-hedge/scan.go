package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/promo-hedge/internal/promo"
	"github.com/yourusername/promo-hedge/internal/report"
	"github.com/yourusername/promo-hedge/internal/service"
)

type scanFlags struct {
	source    string
	hedge     string
	strategy  string
	boost     float64
	refund    float64
	wager     float64
	sports    []string
	allowed   []string
	minProfit float64
	json      bool
	top       int
}

func newScanCmd() *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the opportunities",
		Example: `  promo-hedge scan --source FanDuel --hedge DraftKings --strategy profit_boost --boost 50 --wager 50
  promo-hedge scan --source draftkings --strategy no_sweat --refund 0.7 --wager 25 --sport basketball_nba --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd); err != nil {
				return err
			}
			if err := validateConfig(); err != nil {
				return err
			}
			return runScan(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "", "Book offering the promo (key or name)")
	flags.StringVar(&f.hedge, "hedge", "", "Only hedge at this book (key or name)")
	flags.StringVar(&f.strategy, "strategy", "", "Promo type: profit_boost, bonus_bet or no_sweat")
	flags.Float64Var(&f.boost, "boost", 0, "Profit boost percentage, e.g. 50")
	flags.Float64Var(&f.refund, "refund", 0, "No-sweat refund conversion rate in [0,1]")
	flags.Float64Var(&f.wager, "wager", 0, "Source stake")
	flags.StringSliceVar(&f.sports, "sport", nil, "Sport key to scan (repeatable)")
	flags.StringSliceVar(&f.allowed, "allow", nil, "Books eligible for the hedge leg (repeatable)")
	flags.Float64Var(&f.minProfit, "min-profit", service.DefaultMinProfit, "Keep opportunities with profit above this amount")
	flags.BoolVar(&f.json, "json", false, "Print JSON instead of tables")
	flags.IntVar(&f.top, "top", 0, "Show only the N most profitable opportunities")

	return cmd
}

// apply overrides the scan configuration with flags the user set
func (f *scanFlags) apply(cmd *cobra.Command) error {
	scan := &cfg.Scan
	changed := cmd.Flags().Changed

	if changed("source") {
		key, err := resolveBook(f.source)
		if err != nil {
			return err
		}
		scan.SourceBook = key
	}
	if changed("hedge") {
		if f.hedge == "" {
			scan.HedgeBook = ""
		} else {
			key, err := resolveBook(f.hedge)
			if err != nil {
				return err
			}
			scan.HedgeBook = key
		}
	}
	if changed("allow") {
		keys, err := registry.ResolveKeys(f.allowed)
		if err != nil {
			return invalid(err)
		}
		scan.AllowedBooks = keys
	}
	if changed("strategy") {
		kind, err := promo.ParseKind(f.strategy)
		if err != nil {
			return invalid(err)
		}
		scan.Strategy = string(kind)
	}
	if changed("boost") {
		scan.BoostPercent = f.boost
	}
	if changed("refund") {
		scan.RefundPercent = f.refund
	}
	if changed("wager") {
		scan.Wager = f.wager
	}
	if changed("sport") {
		scan.Sports = f.sports
	}
	if changed("min-profit") {
		scan.MinProfit = f.minProfit
	}
	return nil
}

func runScan(cmd *cobra.Command, f *scanFlags) error {
	req, err := service.RequestFromConfig(cfg.Scan)
	if err != nil {
		return invalid(err)
	}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	scanner, err := buildScanner()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, scanTimeout(req))
	defer cancel()

	result, err := scanner.Scan(ctx, req)
	if err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"scan_id":       result.ID,
		"opportunities": len(result.Opportunities),
		"duration":      result.Duration(),
	}).Debug("Scan finished")

	opts := report.Options{Top: f.top, BookTitle: registry.Title}
	var renderer report.Renderer = report.NewConsole(opts)
	if f.json {
		renderer = report.NewJSON(opts)
	}
	if err := renderer.Render(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if result.Failed() {
		return fmt.Errorf("every sport failed to fetch")
	}
	return nil
}

// scanTimeout leaves room for every retry of every sport
func scanTimeout(req service.ScanRequest) time.Duration {
	perFetch := cfg.OddsAPI.Timeout()
	if perFetch <= 0 {
		perFetch = 10 * time.Second
	}
	return perFetch * time.Duration((cfg.OddsAPI.MaxRetries+1)*len(req.Sports))
}
