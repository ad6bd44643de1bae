package browser

import (
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session is one driven browser with a page and a download directory.
type Session struct {
	Launcher *launcher.Launcher
	Browser  *rod.Browser
	Page     *rod.Page
}

// Options configures a new session. The footage step usually runs with a
// visible window so the editor can step in when a site asks for a login.
type Options struct {
	Headless    bool
	DownloadDir string
	Timeout     time.Duration
}

// NewSession launches a browser and opens one page.
func NewSession(opts Options) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 45 * time.Second
	}

	l := launcher.New().Headless(opts.Headless)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %v", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("error connecting to browser: %v", err)
	}

	var page *rod.Page
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "Error creating page: %v\n", r)
			}
		}()
		page = b.MustPage()
	}()
	if page == nil {
		b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create page")
	}
	page = page.Timeout(opts.Timeout)

	if opts.DownloadDir != "" {
		if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
			b.Close()
			l.Cleanup()
			return nil, fmt.Errorf("creating download dir: %v", err)
		}
		err := proto.BrowserSetDownloadBehavior{
			Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath: opts.DownloadDir,
		}.Call(b)
		if err != nil {
			b.Close()
			l.Cleanup()
			return nil, fmt.Errorf("setting download dir: %v", err)
		}
	}

	return &Session{Launcher: l, Browser: b, Page: page}, nil
}

// Close cleans up the session.
func (s *Session) Close() {
	if s.Page != nil {
		s.Page.Close()
	}
	if s.Browser != nil {
		s.Browser.Close()
	}
	if s.Launcher != nil {
		s.Launcher.Cleanup()
	}
}

// NavigateAndWait navigates to a URL and waits for the page to settle.
func (s *Session) NavigateAndWait(url string) error {
	if err := s.Page.Navigate(url); err != nil {
		return fmt.Errorf("error navigating to %s: %v", url, err)
	}
	if err := s.Page.WaitLoad(); err != nil {
		return fmt.Errorf("error waiting for page load: %v", err)
	}
	s.Page.WaitRequestIdle(3*time.Second, []string{}, []string{}, nil)
	return nil
}

// ClickFirst tries each selector in order and clicks the first one present
// on the page. Returns the selector that matched.
func (s *Session) ClickFirst(selectors ...string) (string, error) {
	for _, sel := range selectors {
		el, err := s.Page.Timeout(3 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		return sel, nil
	}
	return "", fmt.Errorf("none of %d selectors matched", len(selectors))
}
