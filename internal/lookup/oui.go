package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// OUITable maps a MAC address's 24-bit organizationally unique identifier to
// the vendor name that registered it. Immutable once loaded.
type OUITable struct {
	vendors map[uint32]string
}

// Vendor returns the organization name for oui, and whether it was found.
func (t *OUITable) Vendor(oui uint32) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.vendors[oui]
	return name, ok
}

// LoadOUITable parses IEEE's oui.csv format: a header row, then rows of
// (registry, assignment, organization, ...). Column 1 (registry) is
// discarded. Column 2 is a 6-hex-digit uppercase OUI with no separators.
// Column 3 is the organization name, following normal CSV quoting rules
// ("" is an embedded quote). Columns beyond the third are discarded.
//
// encoding/csv already implements RFC 4180 quoting, which is exactly what
// this format needs, so there is no reason to hand-roll a scanner here.
func LoadOUITable(path string) (*OUITable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OUI file: %w", err)
	}
	defer f.Close()
	return parseOUITable(f)
}

func parseOUITable(r io.Reader) (*OUITable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate a variable number of trailing columns
	cr.LazyQuotes = false

	// Header row.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("OUI file is empty, expected a header row")
		}
		return nil, fmt.Errorf("reading OUI header row: %w", err)
	}

	table := &OUITable{vendors: make(map[uint32]string)}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("OUI file line %d: %w", line, err)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("OUI file line %d: expected at least 3 columns, got %d", line, len(record))
		}

		ouiField := record[1]
		if len(ouiField) != 6 {
			return nil, fmt.Errorf("OUI file line %d: expected a 6-hex-digit OUI, got %q", line, ouiField)
		}
		oui, err := strconv.ParseUint(ouiField, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("OUI file line %d: invalid hex OUI %q: %w", line, ouiField, err)
		}

		table.vendors[uint32(oui)] = record[2]
	}

	return table, nil
}
