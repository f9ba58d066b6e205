package lookup

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ASNTable maps an Autonomous System Number to the organization name that
// operates it. Immutable once loaded.
type ASNTable struct {
	names map[uint32]string
}

// Name returns the organization name for asn, and whether it was found.
func (t *ASNTable) Name(asn uint32) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[asn]
	return name, ok
}

// LoadASNTable parses a file of lines "<whitespace>ASN<whitespace>name to
// EOL". Blank lines are skipped. Rejects reserved ASNs 0 and 65535.
func LoadASNTable(path string) (*ASNTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ASN file: %w", err)
	}
	defer f.Close()
	return parseASNTable(f)
}

func parseASNTable(f *os.File) (*ASNTable, error) {
	table := &ASNTable{names: make(map[uint32]string)}

	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimLeft(scanner.Text(), " \t")
		if line == "" {
			continue
		}

		idx := strings.IndexAny(line, " \t")
		if idx < 0 {
			return nil, fmt.Errorf("ASN file line %d: expected \"ASN<whitespace>name\", got %q", lineno, line)
		}
		asnField := line[:idx]
		name := strings.TrimLeft(line[idx:], " \t")
		if name == "" {
			return nil, fmt.Errorf("ASN file line %d: missing organization name", lineno)
		}

		asn, err := strconv.ParseUint(asnField, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ASN file line %d: invalid ASN %q: %w", lineno, asnField, err)
		}
		if asn == 0 || asn == 65535 {
			return nil, fmt.Errorf("ASN file line %d: ASN %d is reserved", lineno, asn)
		}

		table.names[uint32(asn)] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ASN file: %w", err)
	}

	return table, nil
}
