package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRow is one manufacturer/brand line of the Prices sheet
type PriceRow struct {
	Manufacturer string          `yaml:"manufacturer" json:"manufacturer"`
	Brand        string          `yaml:"brand" json:"brand"`
	PricePerBox  decimal.Decimal `yaml:"price_per_box" json:"pricePerBox"`
	// BoxesPerYearSupply is stored doubled in the sheet; halve it for the year supply
	BoxesPerYearSupply     int             `yaml:"boxes_per_year_supply" json:"boxesPerYearSupply"`
	RebateForNewWearer     decimal.Decimal `yaml:"rebate_new_wearer" json:"rebateForNewWearer"`
	RebateForCurrentWearer decimal.Decimal `yaml:"rebate_current_wearer" json:"rebateForCurrentWearer"`
}

// FeeRow is one fitting-type line of the Fitting Fees sheet
type FeeRow struct {
	FittingType             FittingType     `yaml:"fitting_type" json:"fittingType"`
	SelfPayFee              decimal.Decimal `yaml:"self_pay" json:"selfPayFee"`
	InsuranceNewFee         decimal.Decimal `yaml:"insurance_new" json:"insuranceNewFee"`
	InsuranceEstablishedFee decimal.Decimal `yaml:"insurance_established" json:"insuranceEstablishedFee"`
}

type priceKey struct {
	manufacturer string
	brand        string
}

// PriceTable is the immutable, keyed set of price rows for a session
type PriceTable struct {
	rows  []PriceRow
	index map[priceKey]int
}

// NewPriceTable builds a price table. Keys are trimmed; when the sheet repeats a
// manufacturer/brand pair the first row wins.
func NewPriceTable(rows []PriceRow) *PriceTable {
	t := &PriceTable{
		rows:  make([]PriceRow, 0, len(rows)),
		index: make(map[priceKey]int, len(rows)),
	}
	for _, r := range rows {
		r.Manufacturer = strings.TrimSpace(r.Manufacturer)
		r.Brand = strings.TrimSpace(r.Brand)
		k := priceKey{r.Manufacturer, r.Brand}
		if _, dup := t.index[k]; dup {
			continue
		}
		t.index[k] = len(t.rows)
		t.rows = append(t.rows, r)
	}
	return t
}

// Lookup returns the row for an exact (trimmed, case-preserved) manufacturer/brand pair
func (t *PriceTable) Lookup(manufacturer, brand string) (PriceRow, bool) {
	if t == nil {
		return PriceRow{}, false
	}
	i, ok := t.index[priceKey{strings.TrimSpace(manufacturer), strings.TrimSpace(brand)}]
	if !ok {
		return PriceRow{}, false
	}
	return t.rows[i], true
}

// Rows returns a copy of the rows in sheet order
func (t *PriceTable) Rows() []PriceRow {
	if t == nil {
		return nil
	}
	return append([]PriceRow(nil), t.rows...)
}

// Len returns the number of distinct rows
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Manufacturers returns unique non-empty manufacturers in first-seen order
func (t *PriceTable) Manufacturers() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.rows {
		if r.Manufacturer == "" || seen[r.Manufacturer] {
			continue
		}
		seen[r.Manufacturer] = true
		out = append(out, r.Manufacturer)
	}
	return out
}

// Brands returns unique non-empty brands offered by a manufacturer
func (t *PriceTable) Brands(manufacturer string) []string {
	if t == nil {
		return nil
	}
	manufacturer = strings.TrimSpace(manufacturer)
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.rows {
		if r.Manufacturer != manufacturer || r.Brand == "" || seen[r.Brand] {
			continue
		}
		seen[r.Brand] = true
		out = append(out, r.Brand)
	}
	return out
}

// FeeTable maps each fitting type to its fee row
type FeeTable struct {
	rows map[FittingType]FeeRow
}

// NewFeeTable builds a fee table keyed by fitting type. A repeated type is an error
// since there is no sane way to pick between two fee schedules.
func NewFeeTable(rows []FeeRow) (*FeeTable, error) {
	t := &FeeTable{rows: make(map[FittingType]FeeRow, len(rows))}
	for _, r := range rows {
		if _, dup := t.rows[r.FittingType]; dup {
			return nil, fmt.Errorf("duplicate fitting fee row for %s", r.FittingType)
		}
		t.rows[r.FittingType] = r
	}
	return t, nil
}

// Lookup returns the fee row for a fitting type
func (t *FeeTable) Lookup(ft FittingType) (FeeRow, bool) {
	if t == nil {
		return FeeRow{}, false
	}
	r, ok := t.rows[ft]
	return r, ok
}

// Rows returns the fee rows in FittingTypes order
func (t *FeeTable) Rows() []FeeRow {
	if t == nil {
		return nil
	}
	out := make([]FeeRow, 0, len(t.rows))
	for _, ft := range FittingTypes {
		if r, ok := t.rows[ft]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Tables bundles the two lookup tables loaded for a session
type Tables struct {
	Prices *PriceTable
	Fees   *FeeTable
	Stale  bool // served from a cached snapshot rather than a live fetch
}

// Loaded reports whether both tables are present
func (t *Tables) Loaded() bool {
	return t != nil && t.Prices != nil && t.Fees != nil
}
