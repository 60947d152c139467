package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBidirectionalLookup(t *testing.T) {
	r := Default()

	b, ok := r.ByKey("williamhill_us")
	require.True(t, ok)
	assert.Equal(t, "Caesars", b.Title)

	b, ok = r.ByTitle("caesars")
	require.True(t, ok)
	assert.Equal(t, "williamhill_us", b.Key)

	_, ok = r.ByKey("nope")
	assert.False(t, ok)
}

func TestRegistryResolve(t *testing.T) {
	r := Default()

	for _, input := range []string{"draftkings", "DraftKings", " DRAFTKINGS "} {
		b, err := r.Resolve(input)
		require.NoError(t, err, input)
		assert.Equal(t, "draftkings", b.Key)
	}

	_, err := r.Resolve("unknown book")
	assert.Error(t, err)
}

func TestRegistryResolveKeys(t *testing.T) {
	r := Default()

	keys, err := r.ResolveKeys([]string{"FanDuel", "betmgm", "ESPN BET"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fanduel", "betmgm", "espnbet"}, keys)

	_, err = r.ResolveKeys([]string{"fanduel", "bogus"})
	assert.Error(t, err)
}

func TestRegistryTitleFallsBackToKey(t *testing.T) {
	r := Default()
	assert.Equal(t, "FanDuel", r.Title("fanduel"))
	assert.Equal(t, "mystery", r.Title("mystery"))
	assert.True(t, r.Known("fanduel"))
	assert.False(t, r.Known("mystery"))
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(Book{Key: "a", Title: "A"}, Book{Key: "A", Title: "Other"})
	assert.Error(t, err)

	_, err = NewRegistry(Book{Key: "a", Title: "Same"}, Book{Key: "b", Title: "same"})
	assert.Error(t, err)

	_, err = NewRegistry(Book{Key: "", Title: "x"})
	assert.Error(t, err)
}

func TestRegistryOrder(t *testing.T) {
	r, err := NewRegistry(Book{Key: "zeta", Title: "Zeta"}, Book{Key: "alpha", Title: "Alpha"})
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "zeta", all[0].Key)
	assert.Equal(t, []string{"alpha", "zeta"}, r.Keys())
}
