package contract

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	chromiumRenderTimeout = 45 * time.Second
	a4WidthInches         = 8.27
	a4HeightInches        = 11.69
)

var chromiumBinaries = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"headless-shell",
}

// ChromiumEngine prints the contract HTML through a headless browser.
type ChromiumEngine struct {
	execPath string
	lookPath func(string) (string, error)
	log      logger.Logger
}

func NewChromiumEngine(execPath string) *ChromiumEngine {
	return &ChromiumEngine{
		execPath: execPath,
		lookPath: exec.LookPath,
		log:      logger.New("contract").File("chromium"),
	}
}

func (e *ChromiumEngine) Name() string {
	return "chromium"
}

func (e *ChromiumEngine) browserPath() (string, bool) {
	if e.execPath != "" {
		if path, err := e.lookPath(e.execPath); err == nil {
			return path, true
		}
		return "", false
	}

	for _, name := range chromiumBinaries {
		if path, err := e.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

func (e *ChromiumEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	log := e.log.Function("Render").TraceFromContext(ctx)

	path, ok := e.browserPath()
	if !ok {
		return nil, fmt.Errorf("%w: no chromium binary found", ErrEngineUnavailable)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)

	ctx, cancel := context.WithTimeout(ctx, chromiumRenderTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// A browser that cannot start is missing system libraries.
	if err := chromedp.Run(browserCtx); err != nil {
		log.Warn("chromium failed to start", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, log.Err("failed to print contract", err, "quoteID", doc.Data.QuoteID)
	}

	return pdf, nil
}
