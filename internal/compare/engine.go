package compare

import (
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/calculation"
	"github.com/rgehrsitz/lensquote/internal/domain"
)

// CompareEngine derives one selection under several supply modes
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// BaseMode defaults to the selection's supply mode
	BaseMode domain.SupplyMode
	// Modes to compare against; all other supply modes when empty
	Modes   []domain.SupplyMode
	Patient string
}

// Compare derives sel under the base mode and every alternative mode
func (ce *CompareEngine) Compare(tables *domain.Tables, sel domain.SelectionState, options CompareOptions) (*ComparisonSet, error) {
	if !tables.Loaded() {
		return nil, domain.ErrTablesNotLoaded
	}

	base := options.BaseMode
	if base == "" {
		base = sel.SupplyModeOrDefault()
	}
	if _, err := domain.ParseSupplyMode(string(base)); err != nil {
		return nil, fmt.Errorf("invalid base mode: %w", err)
	}

	modes := options.Modes
	if len(modes) == 0 {
		for _, m := range domain.SupplyModes {
			if m != base {
				modes = append(modes, m)
			}
		}
	}

	baseResult := ce.derive(tables, sel, base)

	alternatives := []ComparisonResult{}
	for _, mode := range modes {
		if _, err := domain.ParseSupplyMode(string(mode)); err != nil {
			return nil, fmt.Errorf("invalid supply mode: %w", err)
		}
		if mode == base {
			continue
		}
		alt := ce.derive(tables, sel, mode)
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseMode:           base,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Patient:            options.Patient,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) derive(tables *domain.Tables, sel domain.SelectionState, mode domain.SupplyMode) ComparisonResult {
	s := sel.Clone()
	s.Supply = mode
	r := ce.CalcEngine.Derive(tables, s)
	return ce.MetricsCalculator.CalculateMetrics(mode, &r)
}
