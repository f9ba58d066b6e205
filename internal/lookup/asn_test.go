package lookup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseASNTable(t *testing.T) {
	f := writeTempFile(t, "  15169 GOOGLE\n\t16550\tDIGITALOCEAN-ASN extra words\n\n")
	table, err := parseASNTable(f)
	require.NoError(t, err)

	name, ok := table.Name(15169)
	require.True(t, ok)
	require.Equal(t, "GOOGLE", name)

	name, ok = table.Name(16550)
	require.True(t, ok)
	require.Equal(t, "DIGITALOCEAN-ASN extra words", name)

	_, ok = table.Name(1)
	require.False(t, ok)
}

func TestParseASNTableNilReceiver(t *testing.T) {
	var table *ASNTable
	_, ok := table.Name(15169)
	require.False(t, ok)
}

func TestParseASNTableRejectsReserved(t *testing.T) {
	f := writeTempFile(t, "0 RESERVED\n")
	_, err := parseASNTable(f)
	require.Error(t, err)

	f2 := writeTempFile(t, "65535 RESERVED\n")
	_, err = parseASNTable(f2)
	require.Error(t, err)
}

func TestParseASNTableMissingName(t *testing.T) {
	f := writeTempFile(t, "15169\n")
	_, err := parseASNTable(f)
	require.Error(t, err)
}

func TestParseASNTableMalformed(t *testing.T) {
	f := writeTempFile(t, "notanumber GOOGLE\n")
	_, err := parseASNTable(f)
	require.Error(t, err)
}
