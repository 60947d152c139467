// Package ranking orders and buckets scan opportunities for presentation.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/promo-hedge/internal/models"
)

// Bucket groups opportunities by hedge stake size
type Bucket int

const (
	Low Bucket = iota
	Medium
	High
	Ultra
)

// Buckets lists every bucket in display order
var Buckets = []Bucket{Low, Medium, High, Ultra}

// Upper bounds (inclusive) of the hedge stake for each bucket except Ultra
const (
	LowMax    = 50
	MediumMax = 150
	HighMax   = 250
)

// BucketFor maps a hedge stake to its bucket. Every stake maps to exactly one
// bucket; negative stakes fall into Low.
func BucketFor(hedgeStake float64) Bucket {
	switch {
	case hedgeStake <= LowMax:
		return Low
	case hedgeStake <= MediumMax:
		return Medium
	case hedgeStake <= HighMax:
		return High
	default:
		return Ultra
	}
}

// String returns the lowercase bucket name
func (b Bucket) String() string {
	switch b {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Ultra:
		return "ultra"
	}
	return fmt.Sprintf("bucket(%d)", int(b))
}

// MarshalText encodes the bucket by name
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Label returns the human readable bucket heading
func (b Bucket) Label() string {
	switch b {
	case Low:
		return "Low Hedge ($0 - $50)"
	case Medium:
		return "Medium Hedge ($51 - $150)"
	case High:
		return "High Hedge ($151 - $250)"
	case Ultra:
		return "Ultra Hedge ($251+)"
	}
	return b.String()
}

// ParseBucket maps a bucket name back to its value
func ParseBucket(s string) (Bucket, error) {
	for _, b := range Buckets {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return Low, fmt.Errorf("unknown bucket %q", s)
}

// ByProfit returns a copy sorted by profit, highest first. Ties keep input order.
func ByProfit(opps []models.Opportunity) []models.Opportunity {
	out := append([]models.Opportunity(nil), opps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit > out[j].Profit
	})
	return out
}

// ByROI returns a copy sorted by return on wager, highest first. Ties keep input order.
func ByROI(opps []models.Opportunity) []models.Opportunity {
	out := append([]models.Opportunity(nil), opps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ROI > out[j].ROI
	})
	return out
}

// Top returns at most n leading items; n <= 0 returns everything
func Top(opps []models.Opportunity, n int) []models.Opportunity {
	if n <= 0 || n >= len(opps) {
		return opps
	}
	return opps[:n]
}

// BucketView is one bucket's opportunities ordered by ROI, highest first.
// Star is the index in Items of the best ROI entry.
type BucketView struct {
	Bucket Bucket               `json:"bucket"`
	Label  string               `json:"label"`
	Items  []models.Opportunity `json:"items"`
	Star   int                  `json:"star"`
}

// Starred returns the best ROI opportunity of the bucket
func (v BucketView) Starred() models.Opportunity {
	return v.Items[v.Star]
}

// IsStar reports whether the i-th item is the bucket's star
func (v BucketView) IsStar(i int) bool {
	return i == v.Star
}

// Partition splits opportunities into non-empty buckets in Low→Ultra order
func Partition(opps []models.Opportunity) []BucketView {
	grouped := make(map[Bucket][]models.Opportunity, len(Buckets))
	for _, o := range opps {
		b := BucketFor(o.HedgeStake)
		grouped[b] = append(grouped[b], o)
	}

	views := make([]BucketView, 0, len(Buckets))
	for _, b := range Buckets {
		items := grouped[b]
		if len(items) == 0 {
			continue
		}
		views = append(views, BucketView{
			Bucket: b,
			Label:  b.Label(),
			Items:  ByROI(items),
			Star:   0,
		})
	}
	return views
}

// Filter returns the opportunities that fall into bucket b, preserving order
func Filter(opps []models.Opportunity, b Bucket) []models.Opportunity {
	var out []models.Opportunity
	for _, o := range opps {
		if BucketFor(o.HedgeStake) == b {
			out = append(out, o)
		}
	}
	return out
}
