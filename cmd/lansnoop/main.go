// Command lansnoop passively observes Ethernet traffic, either from a live
// interface or a capture file, and writes a framed stream of topology
// events describing the evolving network graph to stdout.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
