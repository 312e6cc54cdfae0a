package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session prints HTML files to PDF.  One session is shared by every page of an export job.
type Session interface {
	RenderPDF(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

var _ Session = (*BrowserSession)(nil)

// A4 in inches, used when the document doesn't set its own @page size.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 0.5

	defaultPageTimeout = 30 * time.Second
)

type BrowserOptions struct {
	// Bin is the Chromium binary to run.  Empty means $ROD_BROWSER_BIN, and failing that rod's
	// own download.
	Bin string
	// NoSandbox is needed in most containers.  It's switched on automatically when $CI is "true"
	// or a binary is given through the environment.
	NoSandbox bool
	// PageTimeout bounds how long one page may take to load.
	PageTimeout time.Duration
}

// BrowserSession is a headless Chromium driven through go-rod.
type BrowserSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

// LaunchBrowser starts Chromium and connects to it.
func LaunchBrowser(ctx context.Context, opts BrowserOptions) (*BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New()
	bin := opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.NoSandbox || os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	timeout := opts.PageTimeout
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	return &BrowserSession{launcher: l, browser: browser, timeout: timeout}, nil
}

// RenderPDF loads the HTML file at htmlPath in a fresh tab and prints it.  The tab is closed
// again whatever happens.
func (s *BrowserSession) RenderPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("render: resolve %s: %w", htmlPath, err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(abs)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(a4WidthInches),
		PaperHeight:       floatPtr(a4HeightInches),
		MarginTop:         floatPtr(marginInches),
		MarginBottom:      floatPtr(marginInches),
		MarginLeft:        floatPtr(marginInches),
		MarginRight:       floatPtr(marginInches),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Close shuts the browser down.  Calling it more than once is fine.
func (s *BrowserSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("render: close browser: %w", err))
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	return errors.Join(errs...)
}
