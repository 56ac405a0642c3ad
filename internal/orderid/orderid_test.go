package orderid

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDFormat(t *testing.T) {
	g := Generator{
		Prefix: "NC",
		Now:    func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}

	id := g.NewID()
	require.Regexp(t, regexp.MustCompile(`^NC-20260829-[0-9A-F]{6}$`), id)
}

func TestNewIDSuffixVaries(t *testing.T) {
	g := New("NC")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[g.NewID()] = true
	}
	// Random suffixes collide with negligible probability across 100 draws.
	assert.Greater(t, len(seen), 90)
}
