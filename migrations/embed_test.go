package migrations

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesOrderedAndReadable(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, "001_init.sql", names[0])

	for _, name := range names {
		assert.True(t, strings.HasSuffix(name, ".sql"), name)
		data, err := Read(name)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(data)), name)
	}
}
