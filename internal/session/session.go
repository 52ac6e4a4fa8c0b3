// Package session holds the state of one authenticated quoting session: the loaded
// tables, the operator's selection and the derived result. Every mutation goes
// through a Command and synchronously re-runs the affected part of the pipeline.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rgehrsitz/lensquote/internal/calculation"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
)

// Observer receives every newly derived result
type Observer func(domain.DerivedResult)

// TableLoader fetches the price and fee tables
type TableLoader interface {
	Load(ctx context.Context) (*domain.Tables, error)
}

// Session is safe for concurrent use; commands are serialized
type Session struct {
	ID string

	mu         sync.Mutex
	engine     *calculation.Engine
	logger     logging.Logger
	authorized bool
	identity   string
	tables     *domain.Tables
	selection  domain.SelectionState
	result     domain.DerivedResult
	observers  map[int]Observer
	nextObs    int
}

// New creates a signed-out session
func New(id string, engine *calculation.Engine) *Session {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	s := &Session{
		ID:        id,
		engine:    engine,
		logger:    logging.NopLogger{},
		observers: make(map[int]Observer),
	}
	s.resetLocked()
	return s
}

// SetLogger sets the session logger; nil restores the no-op logger
func (s *Session) SetLogger(l logging.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logging.OrNop(l)
}

// Subscribe registers an observer and returns a function that removes it
func (s *Session) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// SignIn authorizes the session for identity. The authorized flag comes from the
// caller's gate; a false value leaves the session signed out.
func (s *Session) SignIn(identity string, authorized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !authorized {
		s.logger.Warnf("sign-in refused for %s", identity)
		return fmt.Errorf("sign in %s: %w", identity, domain.ErrUnauthorized)
	}
	s.authorized = true
	s.identity = identity
	s.logger.Infof("session %s signed in as %s", s.ID, identity)
	return nil
}

// SignOut discards tables, selection and result
func (s *Session) SignOut() {
	s.mu.Lock()
	s.authorized = false
	s.identity = ""
	s.resetLocked()
	result, observers := s.result, s.observerList()
	s.mu.Unlock()

	notify(observers, result)
}

// Authorized reports whether the session is signed in
func (s *Session) Authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorized
}

// Identity returns the signed-in identity, empty when signed out
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Result returns the current derived result
func (s *Session) Result() domain.DerivedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Selection returns a copy of the current selection
func (s *Session) Selection() domain.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Tables returns the loaded tables, nil before LoadTables
func (s *Session) Tables() *domain.Tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables
}

// Quote returns the selection and result as one value
func (s *Session) Quote() domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Quote{
		Selection: s.selection.Clone(),
		Result:    s.result,
		Stale:     s.tables != nil && s.tables.Stale,
	}
}

// LoadTables installs the session tables and re-derives everything
func (s *Session) LoadTables(tables *domain.Tables) error {
	s.mu.Lock()
	if !s.authorized {
		s.mu.Unlock()
		return domain.ErrUnauthorized
	}
	if !tables.Loaded() {
		s.mu.Unlock()
		return domain.ErrTablesNotLoaded
	}
	s.tables = tables
	s.result = s.engine.Derive(s.tables, s.selection)
	s.logger.Infof("session %s loaded %d price rows", s.ID, tables.Prices.Len())
	result, observers := s.result, s.observerList()
	s.mu.Unlock()

	notify(observers, result)
	return nil
}

// LoadFrom fetches tables through loader and installs them. The fetch runs outside
// the session lock.
func (s *Session) LoadFrom(ctx context.Context, loader TableLoader) error {
	if !s.Authorized() {
		return domain.ErrUnauthorized
	}
	tables, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}
	return s.LoadTables(tables)
}

// Execute applies a command and re-derives from the stage it invalidates.
// A failed command leaves the selection untouched.
func (s *Session) Execute(cmd Command) (domain.DerivedResult, error) {
	s.mu.Lock()
	if !s.authorized {
		s.mu.Unlock()
		return domain.DerivedResult{}, domain.ErrUnauthorized
	}

	next := s.selection.Clone()
	if err := cmd.Apply(&next); err != nil {
		s.mu.Unlock()
		return s.Result(), err
	}
	s.selection = next
	s.logger.Debugf("session %s: %s invalidates %s", s.ID, cmd.Name(), cmd.Invalidates())
	s.result = s.engine.DeriveFrom(cmd.Invalidates(), s.result, s.tables, s.selection)
	result, observers := s.result, s.observerList()
	s.mu.Unlock()

	notify(observers, result)
	return result, nil
}

// ExecuteAll applies commands in order, stopping at the first failure
func (s *Session) ExecuteAll(cmds []Command) (domain.DerivedResult, error) {
	var result domain.DerivedResult
	for _, cmd := range cmds {
		r, err := s.Execute(cmd)
		if err != nil {
			return r, err
		}
		result = r
	}
	if len(cmds) == 0 {
		return s.Result(), nil
	}
	return result, nil
}

// SetEye selects the manufacturer and brand for one eye
func (s *Session) SetEye(eye domain.Eye, manufacturer, brand string) (domain.DerivedResult, error) {
	return s.Execute(SetEye{Eye: eye, Manufacturer: manufacturer, Brand: brand})
}

// ClearEye removes the selection for one eye
func (s *Session) ClearEye(eye domain.Eye) (domain.DerivedResult, error) {
	return s.Execute(ClearEye{Eye: eye})
}

// CopyRightToLeft copies the right eye's lens to the left eye
func (s *Session) CopyRightToLeft() (domain.DerivedResult, error) {
	return s.Execute(CopyRightToLeft{})
}

// SetSupplyMode changes how many boxes are billed
func (s *Session) SetSupplyMode(mode domain.SupplyMode) (domain.DerivedResult, error) {
	return s.Execute(SetSupplyMode{Mode: mode})
}

// ClearSupply unsets both eyes and returns to the Year supply
func (s *Session) ClearSupply() (domain.DerivedResult, error) {
	return s.Execute(ClearSupply{})
}

// SetFittingType selects the fitting-fee row
func (s *Session) SetFittingType(ft domain.FittingType) (domain.DerivedResult, error) {
	return s.Execute(SetFittingType{Type: ft})
}

// SetSelfPay records whether the patient pays without insurance
func (s *Session) SetSelfPay(selfPay bool) (domain.DerivedResult, error) {
	return s.Execute(SetSelfPay{SelfPay: selfPay})
}

// SetPatientStatus records a new or established patient
func (s *Session) SetPatientStatus(status domain.PatientStatus) (domain.DerivedResult, error) {
	return s.Execute(SetPatientStatus{Status: status})
}

// SetNewToBrand picks the rebate tier
func (s *Session) SetNewToBrand(newToBrand bool) (domain.DerivedResult, error) {
	return s.Execute(SetNewToBrand{NewToBrand: newToBrand})
}

// SetFeeMethod selects how the base fitting fee is adjusted
func (s *Session) SetFeeMethod(method domain.FeeMethod) (domain.DerivedResult, error) {
	return s.Execute(SetFeeMethod{Method: method})
}

// SetManualInput stores a fitting-fee method amount from raw text
func (s *Session) SetManualInput(field domain.NumericField, raw string) (domain.DerivedResult, error) {
	return s.Execute(SetManualInput{Field: field, Raw: raw})
}

// SetExamInput stores an exam amount or deduction from raw text
func (s *Session) SetExamInput(field domain.NumericField, raw string) (domain.DerivedResult, error) {
	return s.Execute(SetExamInput{Field: field, Raw: raw})
}

// Unset returns a discrete selection to not selected
func (s *Session) Unset(field domain.Field) (domain.DerivedResult, error) {
	return s.Execute(Unset{Field: field})
}

// ClearAll resets the selection while keeping the tables
func (s *Session) ClearAll() (domain.DerivedResult, error) {
	return s.Execute(ClearAll{})
}

func (s *Session) resetLocked() {
	s.tables = nil
	s.selection = domain.NewSelectionState()
	s.result = s.engine.Derive(nil, s.selection)
}

func (s *Session) observerList() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []Observer, result domain.DerivedResult) {
	for _, fn := range observers {
		fn(result)
	}
}
