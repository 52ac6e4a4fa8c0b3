package components

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/tui/tuistyles"
)

// Option is one choice of a form row
type Option struct {
	Value string
	Label string
}

// OptionRow renders a form row whose value is one of a fixed set of options.
// The chosen option is highlighted; an empty Chosen renders "not selected".
type OptionRow struct {
	Label      string
	Options    []Option
	Chosen     string
	Focused    bool
	LabelWidth int
}

// Index returns the position of the chosen option, -1 when none is chosen
func (r OptionRow) Index() int {
	for i, o := range r.Options {
		if o.Value == r.Chosen {
			return i
		}
	}
	return -1
}

// Step returns the option delta positions away from the chosen one, wrapping
// around. With nothing chosen, a forward step picks the first option and a
// backward step the last.
func (r OptionRow) Step(delta int) (Option, bool) {
	n := len(r.Options)
	if n == 0 {
		return Option{}, false
	}
	i := r.Index()
	if i < 0 {
		if delta < 0 {
			return r.Options[n-1], true
		}
		return r.Options[0], true
	}
	return r.Options[((i+delta)%n+n)%n], true
}

// Render returns the row as "label  a [b] c"
func (r OptionRow) Render() string {
	cursor := "  "
	labelStyle := tuistyles.UnselectedItemStyle
	if r.Focused {
		cursor = "▸ "
		labelStyle = tuistyles.SelectedItemStyle
	}

	width := r.LabelWidth
	if width == 0 {
		width = 24
	}
	label := labelStyle.Render(fmt.Sprintf("%-*s", width, r.Label))

	if len(r.Options) == 0 {
		return cursor + label + tuistyles.OptionStyle.Render("(no options)")
	}

	parts := make([]string, 0, len(r.Options))
	for _, o := range r.Options {
		if o.Value == r.Chosen {
			parts = append(parts, tuistyles.OptionChosenStyle.Render("["+o.Label+"]"))
		} else {
			parts = append(parts, tuistyles.OptionStyle.Render(" "+o.Label+" "))
		}
	}
	row := cursor + label + strings.Join(parts, " ")
	if r.Index() < 0 && r.Chosen == "" {
		row += tuistyles.OptionStyle.Italic(true).Render("  not selected")
	}
	return row
}
