// Package report renders scan results for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/oddsmath"
	"github.com/yourusername/promo-hedge/internal/ranking"
	"github.com/yourusername/promo-hedge/internal/service"
)

// NoOpportunitiesMessage is printed when a scan produced nothing to show
const NoOpportunitiesMessage = "No opportunities found"

// StarMarker flags the best ROI row of each bucket
const StarMarker = "★"

// Options controls what the renderers include
type Options struct {
	// Top keeps the n most profitable opportunities; zero keeps all
	Top int
	// BookTitle maps a book key to its display name
	BookTitle func(key string) string
}

// Renderer writes one scan result
type Renderer interface {
	Render(w io.Writer, result *service.ScanResult) error
}

// Console renders per-bucket tables
type Console struct {
	opts Options
}

// NewConsole creates a console renderer
func NewConsole(opts Options) *Console {
	return &Console{opts: opts}
}

// Render writes the header, one table per non-empty bucket and any sport errors
func (c *Console) Render(w io.Writer, result *service.ScanResult) error {
	if result == nil {
		return fmt.Errorf("nil scan result")
	}

	req := result.Request
	fmt.Fprintf(w, "\n[%s] %s → %s | %s | wager %s | %d games, %d pairs, %d profitable\n",
		result.CompletedAt.Local().Format("15:04:05"),
		c.title(req.SourceBook),
		c.hedgeLabel(req),
		req.Strategy,
		Money(req.Wager),
		result.Stats.Games,
		result.Stats.Pairs,
		result.Stats.Profitable,
	)

	opps := selectTop(result.Opportunities, c.opts.Top)
	if len(opps) == 0 {
		fmt.Fprintln(w, NoOpportunitiesMessage)
	} else {
		for _, view := range ranking.Partition(opps) {
			c.renderBucket(w, view)
		}
		best := ranking.ByProfit(opps)[0]
		fmt.Fprintf(w, "\nBest: %s %s, profit %s (%s%% ROI)\n",
			best.GameLabel, best.Source.Outcome, Money(best.Profit), Percent(best.ROI))
	}

	for _, se := range result.SportErrors {
		fmt.Fprintf(w, "  ! %s: %s\n", se.Sport, se.Error)
	}
	return nil
}

func (c *Console) renderBucket(w io.Writer, view ranking.BucketView) {
	star := view.Starred()
	fmt.Fprintf(w, "\n%s: %d (best ROI %s%% on %s)\n", view.Label, len(view.Items), Percent(star.ROI), star.GameLabel)

	table := tablewriter.NewWriter(w)
	table.Header("", "Game", "Start", "Bet", "Odds", "Hedge", "Odds", "Stake", "Outlay", "Profit", "ROI", "Hold")

	for i, o := range view.Items {
		marker := ""
		if view.IsStar(i) {
			marker = StarMarker
		}
		table.Append(
			marker,
			o.GameLabel,
			startTime(o.CommenceTime),
			fmt.Sprintf("%s (%s)", o.Source.Outcome, c.title(o.Source.Book)),
			Odds(o.Source.Price),
			fmt.Sprintf("%s (%s)", o.Hedge.Outcome, c.title(o.Hedge.Book)),
			Odds(o.Hedge.Price),
			Money(o.HedgeStake),
			Money(o.TotalOutlay()),
			Money(o.Profit),
			Percent(o.ROI)+"%",
			holdCell(o),
		)
	}

	table.Render()
}

func (c *Console) title(key string) string {
	if c.opts.BookTitle != nil {
		return c.opts.BookTitle(key)
	}
	return key
}

func (c *Console) hedgeLabel(req service.ScanRequest) string {
	if target := req.Filter().Target(); target != "" {
		return c.title(target)
	}
	if len(req.AllowedBooks) == 0 {
		return "any book"
	}
	titles := make([]string, len(req.AllowedBooks))
	for i, b := range req.AllowedBooks {
		titles[i] = c.title(b)
	}
	return strings.Join(titles, ", ")
}

// JSON renders the result as one indented JSON document
type JSON struct {
	opts Options
}

// NewJSON creates a JSON renderer
func NewJSON(opts Options) *JSON {
	return &JSON{opts: opts}
}

type jsonReport struct {
	ScanID        string               `json:"scan_id"`
	CompletedAt   time.Time            `json:"completed_at"`
	Request       service.ScanRequest  `json:"request"`
	Stats         service.ScanStats    `json:"stats"`
	Message       string               `json:"message,omitempty"`
	Opportunities []jsonOpportunity    `json:"opportunities"`
	Buckets       []ranking.BucketView `json:"buckets"`
	SportErrors   []service.SportError `json:"sport_errors,omitempty"`
}

// jsonOpportunity adds the derived figures shown in the console table
type jsonOpportunity struct {
	models.Opportunity
	Outlay        float64  `json:"outlay"`
	SourceDecimal float64  `json:"source_decimal"`
	HedgeDecimal  float64  `json:"hedge_decimal"`
	Hold          *float64 `json:"hold,omitempty"`
}

func newJSONOpportunity(o models.Opportunity) jsonOpportunity {
	out := jsonOpportunity{Opportunity: o, Outlay: o.TotalOutlay()}
	out.SourceDecimal, _ = oddsmath.AmericanToDecimal(o.Source.Price)
	out.HedgeDecimal, _ = oddsmath.AmericanToDecimal(o.Hedge.Price)
	if h, ok := Hold(o.Source.Price, o.Hedge.Price); ok {
		out.Hold = &h
	}
	return out
}

// Render writes the result
func (j *JSON) Render(w io.Writer, result *service.ScanResult) error {
	if result == nil {
		return fmt.Errorf("nil scan result")
	}

	opps := selectTop(result.Opportunities, j.opts.Top)
	doc := jsonReport{
		ScanID:        result.ID.String(),
		CompletedAt:   result.CompletedAt,
		Request:       result.Request,
		Stats:         result.Stats,
		Opportunities: make([]jsonOpportunity, 0, len(opps)),
		Buckets:       ranking.Partition(opps),
		SportErrors:   result.SportErrors,
	}
	for _, o := range ranking.ByProfit(opps) {
		doc.Opportunities = append(doc.Opportunities, newJSONOpportunity(o))
	}
	if len(opps) == 0 {
		doc.Message = NoOpportunitiesMessage
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// selectTop keeps the n most profitable opportunities
func selectTop(opps []models.Opportunity, n int) []models.Opportunity {
	if n <= 0 || n >= len(opps) {
		return opps
	}
	return ranking.Top(ranking.ByProfit(opps), n)
}

// Money formats an amount to cents with a dollar sign
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Odds formats an American price with its decimal equivalent, e.g. "+250 (3.50)"
func Odds(american int) string {
	d, err := oddsmath.AmericanToDecimal(american)
	if err != nil {
		return fmt.Sprintf("%+d", american)
	}
	return fmt.Sprintf("%+d (%s)", american, decimal.NewFromFloat(d).StringFixed(2))
}

// Hold is the combined implied probability of both legs minus one, at the
// posted prices. Below zero the two books disagree enough to arbitrage
// without a promo.
func Hold(sourcePrice, hedgePrice int) (float64, bool) {
	ps, err := oddsmath.AmericanToImpliedProbability(sourcePrice)
	if err != nil {
		return 0, false
	}
	ph, err := oddsmath.AmericanToImpliedProbability(hedgePrice)
	if err != nil {
		return 0, false
	}
	return ps + ph - 1, true
}

func holdCell(o models.Opportunity) string {
	h, ok := Hold(o.Source.Price, o.Hedge.Price)
	if !ok {
		return "-"
	}
	return Percent(h*100) + "%"
}

// Percent formats a percentage to two decimals
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func startTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02 15:04")
}
