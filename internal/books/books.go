// Package books maps bookmaker display names to provider keys and back.
package books

import (
	"fmt"
	"sort"
	"strings"
)

// Book is a bookmaker known to the odds provider
type Book struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Registry is a bidirectional lookup between bookmaker keys and titles
type Registry struct {
	byKey   map[string]Book
	byTitle map[string]Book
	order   []string
}

// NewRegistry builds a registry, rejecting duplicate keys or titles
func NewRegistry(books ...Book) (*Registry, error) {
	r := &Registry{
		byKey:   make(map[string]Book, len(books)),
		byTitle: make(map[string]Book, len(books)),
	}
	for _, b := range books {
		if err := r.add(b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(b Book) error {
	if b.Key == "" || b.Title == "" {
		return fmt.Errorf("book key and title are required: %+v", b)
	}
	key := normalize(b.Key)
	title := normalize(b.Title)
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("duplicate book key %q", b.Key)
	}
	if _, ok := r.byTitle[title]; ok {
		return fmt.Errorf("duplicate book title %q", b.Title)
	}
	r.byKey[key] = b
	r.byTitle[title] = b
	r.order = append(r.order, b.Key)
	return nil
}

// ByKey looks a book up by provider key
func (r *Registry) ByKey(key string) (Book, bool) {
	b, ok := r.byKey[normalize(key)]
	return b, ok
}

// ByTitle looks a book up by display name
func (r *Registry) ByTitle(title string) (Book, bool) {
	b, ok := r.byTitle[normalize(title)]
	return b, ok
}

// Resolve accepts either a key or a title, case-insensitively
func (r *Registry) Resolve(s string) (Book, error) {
	if b, ok := r.ByKey(s); ok {
		return b, nil
	}
	if b, ok := r.ByTitle(s); ok {
		return b, nil
	}
	return Book{}, fmt.Errorf("unknown bookmaker %q", s)
}

// ResolveKeys maps a list of keys or titles to provider keys
func (r *Registry) ResolveKeys(names []string) ([]string, error) {
	keys := make([]string, 0, len(names))
	for _, n := range names {
		b, err := r.Resolve(n)
		if err != nil {
			return nil, err
		}
		keys = append(keys, b.Key)
	}
	return keys, nil
}

// Title returns the display name for key, or key itself when unknown
func (r *Registry) Title(key string) string {
	if b, ok := r.ByKey(key); ok {
		return b.Title
	}
	return key
}

// Known reports whether key is registered
func (r *Registry) Known(key string) bool {
	_, ok := r.ByKey(key)
	return ok
}

// All returns the books in registration order
func (r *Registry) All() []Book {
	out := make([]Book, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[normalize(k)])
	}
	return out
}

// Keys returns the registered keys sorted alphabetically
func (r *Registry) Keys() []string {
	keys := append([]string(nil), r.order...)
	sort.Strings(keys)
	return keys
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// US bookmakers served by The Odds API "us" and "us2" regions
var defaultBooks = []Book{
	{Key: "draftkings", Title: "DraftKings"},
	{Key: "fanduel", Title: "FanDuel"},
	{Key: "betmgm", Title: "BetMGM"},
	{Key: "williamhill_us", Title: "Caesars"},
	{Key: "espnbet", Title: "ESPN BET"},
	{Key: "betrivers", Title: "BetRivers"},
	{Key: "fanatics", Title: "Fanatics"},
	{Key: "hardrockbet", Title: "Hard Rock Bet"},
	{Key: "ballybet", Title: "Bally Bet"},
	{Key: "betonlineag", Title: "BetOnline.ag"},
	{Key: "bovada", Title: "Bovada"},
	{Key: "lowvig", Title: "LowVig.ag"},
	{Key: "mybookieag", Title: "MyBookie.ag"},
	{Key: "betus", Title: "BetUS"},
	{Key: "fliff", Title: "Fliff"},
	{Key: "windcreek", Title: "Betfred"},
}

// Default returns a registry preloaded with the common US bookmakers
func Default() *Registry {
	r, err := NewRegistry(defaultBooks...)
	if err != nil {
		panic(err)
	}
	return r
}
