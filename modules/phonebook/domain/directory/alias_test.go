package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestAlias(t *testing.T) {
	require.Equal(t, "Finance", SuggestAlias("Finance"))
	require.Equal(t, "HRD", SuggestAlias("Human Resources Department"))
	require.Equal(t, "HRD", SuggestAlias("  human resources department  "))
	require.Equal(t, "", SuggestAlias("   "))
	require.Equal(t, "", SuggestAlias(""))
}
