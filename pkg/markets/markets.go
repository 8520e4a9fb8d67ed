// Package markets holds the countries a snapshot can be run against and the
// upstream parameters each one maps to.
package markets

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed markets.yaml
var embeddedTable []byte

// Market describes one supported country.
type Market struct {
	Code         string `yaml:"code" json:"code"`
	Name         string `yaml:"name" json:"name"`
	Flag         string `yaml:"flag" json:"flag"`
	GL           string `yaml:"gl" json:"gl"`
	GoogleDomain string `yaml:"google_domain" json:"google_domain"`
	Currency     string `yaml:"currency" json:"currency"`
	Symbol       string `yaml:"symbol" json:"symbol"`
	LocationCode int    `yaml:"location_code" json:"location_code"`
}

// Table is an ordered, read-only set of markets with a default entry.
type Table struct {
	defaultCode string
	markets     []Market
	byCode      map[string]int
}

type tableFile struct {
	Default string   `yaml:"default"`
	Markets []Market `yaml:"markets"`
}

// Parse decodes a YAML market table.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode market table: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, fmt.Errorf("market table is empty")
	}

	t := &Table{
		defaultCode: normalizeCode(file.Default),
		markets:     make([]Market, 0, len(file.Markets)),
		byCode:      make(map[string]int, len(file.Markets)),
	}
	for _, m := range file.Markets {
		m.Code = normalizeCode(m.Code)
		if m.Code == "" {
			return nil, fmt.Errorf("market %q has no code", m.Name)
		}
		if _, dup := t.byCode[m.Code]; dup {
			return nil, fmt.Errorf("duplicate market code %q", m.Code)
		}
		if m.LocationCode <= 0 {
			return nil, fmt.Errorf("market %q has no location code", m.Code)
		}
		t.byCode[m.Code] = len(t.markets)
		t.markets = append(t.markets, m)
	}
	if t.defaultCode == "" {
		t.defaultCode = t.markets[0].Code
	}
	if _, ok := t.byCode[t.defaultCode]; !ok {
		return nil, fmt.Errorf("default market %q is not in the table", t.defaultCode)
	}
	return t, nil
}

// Find returns the market for code, if it exists.
func (t *Table) Find(code string) (Market, bool) {
	idx, ok := t.byCode[normalizeCode(code)]
	if !ok {
		return Market{}, false
	}
	return t.markets[idx], true
}

// Lookup returns the market for code, falling back to the default market for
// unknown or empty codes.
func (t *Table) Lookup(code string) Market {
	if m, ok := t.Find(code); ok {
		return m
	}
	return t.Default()
}

func (t *Table) Default() Market {
	return t.markets[t.byCode[t.defaultCode]]
}

// All returns the markets in table order.
func (t *Table) All() []Market {
	out := make([]Market, len(t.markets))
	copy(out, t.markets)
	return out
}

// SymbolFor returns the display symbol for an ISO currency code, "$" when the
// currency is not in the table.
func (t *Table) SymbolFor(currency string) string {
	for _, m := range t.markets {
		if strings.EqualFold(m.Currency, currency) {
			return m.Symbol
		}
	}
	return "$"
}

var builtin = mustParse(embeddedTable)

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Builtin returns the market table compiled into the binary.
func Builtin() *Table {
	return builtin
}

// Lookup resolves code against the builtin table.
func Lookup(code string) Market {
	return builtin.Lookup(code)
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
