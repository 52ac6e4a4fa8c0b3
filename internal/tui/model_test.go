package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/session"
	"github.com/rgehrsitz/lensquote/internal/tui/tuimsg"
)

type fakeLoader struct {
	tables *domain.Tables
	err    error
}

func (f fakeLoader) Load(context.Context) (*domain.Tables, error) {
	return f.tables, f.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testTables(t *testing.T) *domain.Tables {
	t.Helper()
	fees, err := domain.NewFeeTable([]domain.FeeRow{
		{FittingType: domain.FittingSphere, SelfPayFee: dec("60"), InsuranceNewFee: dec("50"), InsuranceEstablishedFee: dec("30")},
	})
	require.NoError(t, err)
	return &domain.Tables{
		Prices: domain.NewPriceTable([]domain.PriceRow{{
			Manufacturer:           "Johnson & Johnson",
			Brand:                  "Acuvue Oasys",
			PricePerBox:            dec("30"),
			BoxesPerYearSupply:     16,
			RebateForNewWearer:     dec("20"),
			RebateForCurrentWearer: dec("10"),
		}}),
		Fees: fees,
	}
}

func newTestModel(t *testing.T, loader session.TableLoader) Model {
	t.Helper()
	sess := session.New("tui", nil)
	require.NoError(t, sess.SignIn("frontdesk@example.com", true))
	return NewModel(sess, loader, "Jane Doe")
}

// run feeds msg to the model and follows the returned commands, skipping the
// ones that block on terminal input.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadTables(t *testing.T) {
	m := newTestModel(t, fakeLoader{tables: testTables(t)})

	m = run(t, m, m.Init()())

	assert.NoError(t, m.err)
	assert.Equal(t, "Loaded 1 products", m.status)
	assert.False(t, m.session.Result().Pending)
}

func TestModel_LoadError(t *testing.T) {
	m := newTestModel(t, fakeLoader{err: errors.New("sheet offline")})

	m = run(t, m, m.Init()())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "sheet offline")

	m = run(t, m, key("a"))
	assert.NoError(t, m.err, "Any key dismisses the error")
}

func TestModel_FormDrivesSession(t *testing.T) {
	m := newTestModel(t, fakeLoader{tables: testTables(t)})
	m = run(t, m, m.Init()())

	m = run(t, m, tuimsg.CommandMsg{Command: session.SetEye{Eye: domain.EyeRight, Manufacturer: "Johnson & Johnson", Brand: "Acuvue Oasys"}})
	m = run(t, m, key("c"))

	r := m.session.Result()
	assert.True(t, r.TotalBoxes().Equal(dec("16")), "Copy right to left doubles the boxes, got %s", r.TotalBoxes())

	// Patient row is first; stepping right picks "New"
	m = run(t, m, key("right"))
	sel := m.session.Selection()
	require.NotNil(t, sel.PatientStatus)
	assert.Equal(t, domain.PatientNew, *sel.PatientStatus)

	// Clearing the row unsets it again
	m = run(t, m, key("x"))
	assert.Nil(t, m.session.Selection().PatientStatus)
}

func TestModel_AmountEntry(t *testing.T) {
	m := newTestModel(t, fakeLoader{tables: testTables(t)})
	m = run(t, m, m.Init()())

	// Walk down to the first amount row (exam copay)
	for i := 0; i < 10; i++ {
		m = run(t, m, key("down"))
	}
	m = run(t, m, key("enter"))
	require.True(t, m.formModel.Editing())

	// Global shortcuts are ignored while typing
	m = run(t, m, key("2"))
	m = run(t, m, key("5"))
	assert.Equal(t, SceneForm, m.currentScene)

	m = run(t, m, key("enter"))
	assert.False(t, m.formModel.Editing())
	assert.True(t, m.session.Selection().Exam.ExamCopay.Equal(dec("25")))
}

func TestModel_RejectedCommandSetsStatus(t *testing.T) {
	m := newTestModel(t, fakeLoader{tables: testTables(t)})
	m = run(t, m, m.Init()())

	m = run(t, m, tuimsg.CommandMsg{Command: session.CopyRightToLeft{}})

	assert.Contains(t, m.status, "right eye")
	assert.NoError(t, m.err, "A rejected command is not fatal")
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, fakeLoader{tables: testTables(t)})
	m = run(t, m, m.Init()())

	m = run(t, m, key("3"))
	assert.Equal(t, SceneCompare, m.currentScene)
	assert.Contains(t, m.View(), "Supply Comparison")

	m = run(t, m, key("2"))
	assert.Equal(t, SceneResults, m.currentScene)
	assert.Contains(t, m.View(), "Quote Breakdown")

	m = run(t, m, key("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	m = run(t, m, key("1"))
	assert.Equal(t, SceneForm, m.currentScene)
	assert.Contains(t, m.View(), "Contact Lens Quote")
}

func TestModel_Export(t *testing.T) {
	t.Chdir(t.TempDir())
	m := newTestModel(t, fakeLoader{tables: testTables(t)})
	m = run(t, m, m.Init()())

	m = run(t, m, key("e"))
	assert.Contains(t, m.status, "Saved lens_quote_")

	m = run(t, m, tuimsg.ExportMsg{Format: "pdf-nope"})
	assert.Contains(t, m.status, "Export failed")
}
