package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// HTMLFormatter produces a printable HTML quote
type HTMLFormatter struct {
	// Now stamps the document; time.Now when nil
	Now func() time.Time
}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/quote.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("quote").Parse(htmlTemplateSource))

type htmlSection struct {
	Name  string
	Items []LineItem
}

func (h HTMLFormatter) Format(q *domain.Quote) ([]byte, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	var sections []htmlSection
	for _, li := range LineItems(q) {
		if n := len(sections); n == 0 || sections[n-1].Name != li.Section {
			sections = append(sections, htmlSection{Name: li.Section})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, li)
	}

	data := struct {
		Patient   string
		Supply    string
		Generated string
		Sections  []htmlSection
		Notes     []string
	}{q.Patient, supplyName(q.Result.Supply), now().Format("January 2, 2006 3:04 PM"), sections, Notes(q)}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
