package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func yesNo() []Option {
	return []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}
}

func TestOptionRow_Step(t *testing.T) {
	row := OptionRow{Label: "Self pay", Options: yesNo()}

	next, ok := row.Step(1)
	assert.True(t, ok)
	assert.Equal(t, "yes", next.Value, "Forward from nothing picks the first option")

	prev, ok := row.Step(-1)
	assert.True(t, ok)
	assert.Equal(t, "no", prev.Value, "Backward from nothing picks the last option")

	row.Chosen = "no"
	next, _ = row.Step(1)
	assert.Equal(t, "yes", next.Value, "Stepping wraps around")

	_, ok = OptionRow{}.Step(1)
	assert.False(t, ok)
}

func TestOptionRow_Render(t *testing.T) {
	row := OptionRow{Label: "Self pay", Options: yesNo(), Focused: true}
	out := row.Render()
	assert.Contains(t, out, "Self pay")
	assert.Contains(t, out, "not selected")

	row.Chosen = "yes"
	out = row.Render()
	assert.Contains(t, out, "[Yes]")
	assert.NotContains(t, out, "not selected")

	assert.Contains(t, OptionRow{Label: "Brand"}.Render(), "(no options)")
}

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Final out of pocket", decimal.RequireFromString("159.92")).WithNote("after allowance")
	out := card.Render()
	assert.Contains(t, out, "Final out of pocket")
	assert.Contains(t, out, "$159.92")
	assert.Contains(t, out, "after allowance")

	boxes := NewMetricCard("Boxes", decimal.Zero).WithValue("8")
	assert.Contains(t, boxes.RenderCompact(), "Boxes:")
	assert.Contains(t, boxes.RenderCompact(), "8")

	grid := MetricGrid([]*MetricCard{card, boxes, card}, 2)
	assert.Equal(t, 2, strings.Count(grid, "Final out of pocket"))
	assert.Equal(t, "", MetricGrid(nil, 2))
}
