package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCategory("  calm ")
	require.NoError(t, err)
	assert.Equal(t, Calm, got)

	for _, bad := range []string{"", "Happy", "joyful", "sad,happy"} {
		_, err := ParseCategory(bad)
		assert.ErrorIs(t, err, ErrUnknownCategory, "input %q", bad)
	}
}

func TestCategories_ClosedSet(t *testing.T) {
	all := Categories()
	assert.Len(t, all, 11)
	assert.Contains(t, all, Other)

	// Mutating the returned slice must not affect validation.
	all[0] = "bogus"
	assert.True(t, Happy.Valid())
	assert.False(t, Category("bogus").Valid())
}
