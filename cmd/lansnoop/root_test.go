package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRequiresExactlyOneSource(t *testing.T) {
	err := run(flags{})
	require.ErrorContains(t, err, "exactly one of")

	err = run(flags{iface: "eth0", file: "capture.pcap"})
	require.ErrorContains(t, err, "exactly one of")
}

func TestNewRootCmdRegistersFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"interface", "read", "oui", "prefixes", "asns", "verbose", "metrics-addr", "one-lan"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}
