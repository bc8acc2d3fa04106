package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog(t *testing.T) {
	a := SeedCatalog()
	b := SeedCatalog()

	require.Len(t, a, 600)

	// Seeding is deterministic across runs.
	for id, p := range a {
		assert.Equal(t, *b[id], *p)
	}

	for id, p := range a {
		assert.GreaterOrEqual(t, p.PriceCents, int64(500), id)
		assert.Less(t, p.PriceCents, int64(20000), id)
		assert.Positive(t, p.Free, id)
		assert.Zero(t, p.Reserved, id)
	}

	// Every 17th product draws from the scarce stock band.
	assert.Less(t, a["p0017"].Free, a["p0016"].Free)
	assert.LessOrEqual(t, a["p0017"].Free, 50)
}
