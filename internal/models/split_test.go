package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitMethod(t *testing.T) {
	for _, m := range SplitMethods {
		got, err := ParseSplitMethod(" " + string(m) + " ")
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseSplitMethod("EXACT")
	require.NoError(t, err)
	assert.Equal(t, SplitExact, got)

	_, err = ParseSplitMethod("shares")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want one of equal, exact, percentage")
}

func TestSplitMethod_Valid(t *testing.T) {
	assert.True(t, SplitPercentage.Valid())
	assert.False(t, SplitMethod("Equal").Valid())
	assert.False(t, SplitMethod("").Valid())
}
