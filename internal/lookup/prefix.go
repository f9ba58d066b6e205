package lookup

import (
	"bufio"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/gaissmai/bart"

	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

// PrefixTable resolves an IPv4 address to the Autonomous System that
// announces the most specific prefix covering it.
type PrefixTable struct {
	table *bart.Table[uint32]
}

// Lookup returns the ASN covering addr, and whether a covering prefix was
// found at all. Overlapping prefixes resolve to the most specific match,
// which bart's Lookup gives natively.
func (t *PrefixTable) Lookup(addr netaddr.IPv4) (asn uint32, ok bool) {
	if t == nil {
		return 0, false
	}
	nip := netip.AddrFrom4(addr)
	return t.table.Lookup(nip)
}

// LoadPrefixTable parses a file of lines "A.B.C.D/len<TAB>ASN". Validates
// len <= 32 and that the address has no bits set outside the mask. Rejects
// ASN 0 and 65535 (reserved).
func LoadPrefixTable(path string) (*PrefixTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening prefix file: %w", err)
	}
	defer f.Close()
	return parsePrefixTable(f)
}

func parsePrefixTable(f *os.File) (*PrefixTable, error) {
	table := bart.Table[uint32]{}

	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("prefix file line %d: expected \"CIDR<TAB>ASN\", got %q", lineno, line)
		}

		prefix, err := netip.ParsePrefix(fields[0])
		if err != nil {
			return nil, fmt.Errorf("prefix file line %d: invalid CIDR %q: %w", lineno, fields[0], err)
		}
		if !prefix.Addr().Is4() {
			return nil, fmt.Errorf("prefix file line %d: only IPv4 prefixes are supported, got %q", lineno, fields[0])
		}
		if prefix.Bits() > 32 {
			return nil, fmt.Errorf("prefix file line %d: prefix length %d exceeds 32", lineno, prefix.Bits())
		}
		masked := prefix.Masked()
		if masked.Addr() != prefix.Addr() {
			return nil, fmt.Errorf("prefix file line %d: address %s has bits set outside of /%d", lineno, prefix.Addr(), prefix.Bits())
		}

		asn, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("prefix file line %d: invalid ASN %q: %w", lineno, fields[1], err)
		}
		if asn == 0 || asn == 65535 {
			return nil, fmt.Errorf("prefix file line %d: ASN %d is reserved", lineno, asn)
		}

		table.Update(prefix, func(_ uint32, _ bool) uint32 { return uint32(asn) })
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading prefix file: %w", err)
	}

	return &PrefixTable{table: &table}, nil
}
