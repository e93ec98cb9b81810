package visual

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
)

// CaptureConfig controls the headless browser.
type CaptureConfig struct {
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
	// DomainQPS throttles captures per host; zero disables throttling.
	DomainQPS float64
}

// Capturer renders pages in headless Chrome and writes full-page PNG
// captures. One browser serves the whole run; each capture gets its own
// tab.
type Capturer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	cfg             CaptureConfig
	domainLimiters  sync.Map
	logger          *zap.Logger
}

// NewCapturer starts the headless browser.
func NewCapturer(cfg CaptureConfig, logger *zap.Logger) (*Capturer, error) {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 1920
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 1080
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 60 * time.Second
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &Capturer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		cfg:             cfg,
		logger:          logger,
	}, nil
}

// Close tears down the browser.
func (c *Capturer) Close() {
	if c == nil {
		return
	}
	c.browserCancel()
	c.allocatorCancel()
}

// Capture navigates to rawURL and writes a full-page screenshot to
// outPath.
func (c *Capturer) Capture(ctx context.Context, rawURL string, outPath string) error {
	if err := c.waitDomainBudget(ctx, rawURL); err != nil {
		return fmt.Errorf("capture rate limit: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	taskCtx, cancelTask := context.WithTimeout(tabCtx, c.cfg.NavTimeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var buf []byte
	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(c.cfg.UserAgent),
		chromedp.EmulateViewport(int64(c.cfg.ViewportWidth), int64(c.cfg.ViewportHeight)),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 90),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		metrics.ObserveScreenshot("error")
		return fmt.Errorf("chromedp capture: %w", err)
	}

	if err := os.WriteFile(outPath, buf, 0o600); err != nil {
		metrics.ObserveScreenshot("error")
		return fmt.Errorf("write screenshot %s: %w", outPath, err)
	}
	metrics.ObserveScreenshot("ok")
	c.logger.Info("Screenshot saved", zap.String("url", rawURL), zap.String("path", outPath))
	return nil
}

func (c *Capturer) waitDomainBudget(ctx context.Context, rawURL string) error {
	if c.cfg.DomainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse capture url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := c.domainLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(c.cfg.DomainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// ScreenshotName derives a filesystem-safe PNG name for a URL.
func ScreenshotName(rawURL string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	name = strings.NewReplacer("/", "_", "?", "_", "&", "_", ":", "_").Replace(name)
	return name + ".png"
}
