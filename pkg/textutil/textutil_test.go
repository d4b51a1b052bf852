package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "us", NormalizeName(" US\n"))
	require.Equal(t, "southafrica", NormalizeName("South \tAfrica"))
	require.Equal(t, "", NormalizeName("  "))
}
