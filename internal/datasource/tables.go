package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/money"
)

// Prices sheet columns, normalized
const (
	ColManufacturer    = "manufacturer"
	ColBrand           = "brand"
	ColPricePerBox     = "priceperbox"
	ColBoxesYearSupply = "#ofboxesforyearsupply"
	ColRebateNew       = "rebatesfornewwearer"
	ColRebateCurrent   = "yearsupplycurrent"
)

// Fitting Fees sheet columns, normalized
const (
	ColSelfPay        = "selfpay"
	ColInsNew         = "insnew"
	ColInsEstablished = "insestablished"
)

// fittingTypeColumns are the labels tried, in order, for the fitting-type column
var fittingTypeColumns = []string{"fittingtype", "fittingfees", "fitting", "type"}

// BuildPriceTable converts a Prices envelope into a price table. Numeric cells that
// do not parse become zero.
func BuildPriceTable(env *Envelope) (*domain.PriceTable, error) {
	for _, col := range []string{ColManufacturer, ColBrand} {
		if len(env.Columns) > 0 && !env.HasColumn(col) {
			return nil, fmt.Errorf("prices sheet is missing column %q", col)
		}
	}

	rows := make([]domain.PriceRow, 0, len(env.Data))
	for _, r := range env.Data {
		row := domain.PriceRow{
			Manufacturer:           cellString(r[ColManufacturer]),
			Brand:                  cellString(r[ColBrand]),
			PricePerBox:            money.FromAny(r[ColPricePerBox]),
			BoxesPerYearSupply:     int(money.FromAny(r[ColBoxesYearSupply]).IntPart()),
			RebateForNewWearer:     money.FromAny(r[ColRebateNew]),
			RebateForCurrentWearer: money.FromAny(r[ColRebateCurrent]),
		}
		if row.Manufacturer == "" && row.Brand == "" {
			continue
		}
		rows = append(rows, row)
	}
	return domain.NewPriceTable(rows), nil
}

// BuildFeeTable converts a Fitting Fees envelope into a fee table keyed by fitting
// type. Rows whose type cell is not a known fitting type are skipped.
func BuildFeeTable(env *Envelope) (*domain.FeeTable, error) {
	typeCol := findFittingTypeColumn(env)
	if typeCol == "" {
		return nil, fmt.Errorf("fitting fees sheet has no fitting type column")
	}

	rows := make([]domain.FeeRow, 0, len(env.Data))
	for _, r := range env.Data {
		ft, err := domain.ParseFittingType(cellString(r[typeCol]))
		if err != nil {
			continue
		}
		rows = append(rows, domain.FeeRow{
			FittingType:             ft,
			SelfPayFee:              money.FromAny(r[ColSelfPay]),
			InsuranceNewFee:         money.FromAny(r[ColInsNew]),
			InsuranceEstablishedFee: money.FromAny(r[ColInsEstablished]),
		})
	}

	table, err := domain.NewFeeTable(rows)
	if err != nil {
		return nil, fmt.Errorf("fitting fees sheet: %w", err)
	}
	return table, nil
}

// findFittingTypeColumn prefers a known label, then any column whose non-empty
// values are all fitting types.
func findFittingTypeColumn(env *Envelope) string {
	for _, name := range fittingTypeColumns {
		if env.HasColumn(name) {
			return name
		}
	}

	for _, col := range env.Columns {
		matched := 0
		ok := true
		for _, r := range env.Data {
			s := cellString(r[col])
			if s == "" {
				continue
			}
			if _, err := domain.ParseFittingType(s); err != nil {
				ok = false
				break
			}
			matched++
		}
		if ok && matched > 0 {
			return col
		}
	}
	return ""
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Loader fetches both sheets, prices first, and builds the session tables
type Loader struct {
	Source Source
	Logger logging.Logger
}

// NewLoader creates a loader over a source
func NewLoader(src Source, logger logging.Logger) *Loader {
	return &Loader{Source: src, Logger: logging.OrNop(logger)}
}

// Load fetches Prices then Fitting Fees. Tables are stale when either sheet came
// from a snapshot.
func (l *Loader) Load(ctx context.Context) (*domain.Tables, error) {
	log := logging.OrNop(l.Logger)

	pricesEnv, err := l.Source.Fetch(ctx, SheetPrices)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", SheetPrices, err)
	}
	prices, err := BuildPriceTable(pricesEnv)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d price rows", prices.Len())

	feesEnv, err := l.Source.Fetch(ctx, SheetFittingFees)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", SheetFittingFees, err)
	}
	fees, err := BuildFeeTable(feesEnv)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d fitting fee rows", len(fees.Rows()))

	return &domain.Tables{
		Prices: prices,
		Fees:   fees,
		Stale:  pricesEnv.Stale || feesEnv.Stale,
	}, nil
}
