package output

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rgehrsitz/lensquote/internal/domain"
)

// PDFPrinter prints HTML to PDF with a headless Chrome
type PDFPrinter struct {
	// ExecPath overrides Chrome detection
	ExecPath string
	Timeout  time.Duration
}

// NewPDFPrinter creates a printer with a 30 second timeout
func NewPDFPrinter() *PDFPrinter {
	return &PDFPrinter{Timeout: 30 * time.Second}
}

// DetectChromePath returns the first Chrome or Chromium binary found, "" if none
func DetectChromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// PrintHTML renders an HTML document to a Letter-size PDF
func (p *PDFPrinter) PrintHTML(ctx context.Context, html []byte) ([]byte, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	execPath := p.ExecPath
	if execPath == "" {
		execPath = DetectChromePath()
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var pdf []byte
	err := chromedp.Run(chromeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}

// PrintQuote renders q as HTML and prints it
func (p *PDFPrinter) PrintQuote(ctx context.Context, q *domain.Quote) ([]byte, error) {
	html, err := HTMLFormatter{}.Format(q)
	if err != nil {
		return nil, err
	}
	return p.PrintHTML(ctx, html)
}
