package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Generator drives headless chromium to print a staged HTML file to PDF.
// The render is synchronous from the caller's perspective, bounded by the
// configured timeout; there is no cancellation path beyond that timeout.
type Generator struct {
	timeout time.Duration
}

// NewGenerator returns a generator with the given per-render timeout.
func NewGenerator(timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{timeout: timeout}
}

// RenderFile navigates to the HTML artifact and prints it to pdfPath with
// A4 paper, half-inch margins and background graphics enabled. Waiting for
// network idle can hang on documents that never settle, so a plain
// load-complete wait is retried once before failing.
func (g *Generator) RenderFile(htmlPath, pdfPath string) error {
	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	fileURL, err := fileURLFor(htmlPath)
	if err != nil {
		return err
	}

	page, err := browser.Timeout(g.timeout).Page(proto.TargetCreateTarget{URL: fileURL})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	page = page.Timeout(g.timeout)
	if idleErr := page.WaitIdle(g.timeout); idleErr != nil {
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("wait load after idle failure (%v): %w", idleErr, err)
		}
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      float64Ptr(8.27),
		PaperHeight:     float64Ptr(11.69),
		MarginTop:       float64Ptr(0.5),
		MarginBottom:    float64Ptr(0.5),
		MarginLeft:      float64Ptr(0.5),
		MarginRight:     float64Ptr(0.5),
	})
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read pdf bytes: %w", err)
	}

	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return fmt.Errorf("write pdf artifact: %w", err)
	}

	return nil
}

func fileURLFor(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve artifact path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func float64Ptr(value float64) *float64 {
	return &value
}
