// Package chromedp renders documents to PDF through headless Chrome.
package chromedp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"tailor-backend/internal/render"
)

const defaultTimeout = 45 * time.Second

// Renderer implements render.Renderer by printing an HTML version of the
// document on an A4 page. Chrome is looked up on PATH; set CHROME_PATH to
// point at a specific binary.
type Renderer struct {
	timeout time.Duration
}

// New returns a PDF renderer. timeout <= 0 uses the default.
func New(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Renderer{timeout: timeout}
}

func (r *Renderer) Render(ctx context.Context, in render.Input) ([]byte, error) {
	html, err := render.BuildHTML(in)
	if err != nil {
		return nil, fmt.Errorf("build html: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	// Chrome needs a URL to print, so the page goes through a temp file.
	tmpDir, err := os.MkdirTemp("", "tailor-render-")
	if err != nil {
		return nil, fmt.Errorf("render temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "document.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("write render input: %w", err)
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			// A4: 210mm x 297mm is 8.27in x 11.69in.
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

func (r *Renderer) Format() string { return render.FormatPDF }

var _ render.Renderer = (*Renderer)(nil)
var _ render.Format = (*Renderer)(nil)
