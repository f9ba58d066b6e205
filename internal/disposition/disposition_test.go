package disposition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringCoversAllValues(t *testing.T) {
	for d := TRUNCATED; d < numDispositions; d++ {
		require.NotEmpty(t, d.String())
		require.NotEqual(t, "(invalid)", d.String())
	}
}

func TestStringInvalid(t *testing.T) {
	require.Equal(t, "(invalid)", numDispositions.String())
	require.Equal(t, "(invalid)", Disposition(-1).String())
}

func TestAllMatchesNames(t *testing.T) {
	all := All()
	require.Len(t, all, int(numDispositions))
	require.Equal(t, TRUNCATED, all[0])
	require.Equal(t, DNS_ERROR, all[len(all)-1])
}
