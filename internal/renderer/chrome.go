package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Chrome drives a headless (or headed) Chrome instance through the DevTools
// protocol. It implements Renderer.
//
// Design decision: One Chrome value owns one browser tab. The renderer is a
// single stateful resource; the crawler drives it from a single goroutine,
// so no internal locking is needed.
type Chrome struct {
	// ctx is the chromedp tab context all actions run against.
	ctx context.Context

	// cancel tears down the tab and the allocator.
	cancel context.CancelFunc

	// headless controls whether the browser window is shown.
	headless bool

	// userAgent overrides the browser User-Agent when non-empty.
	userAgent string
}

// ChromeOption configures a Chrome renderer.
type ChromeOption func(*Chrome)

// WithHeadless controls headless mode. Defaults to true.
func WithHeadless(headless bool) ChromeOption {
	return func(c *Chrome) {
		c.headless = headless
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ChromeOption {
	return func(c *Chrome) {
		c.userAgent = ua
	}
}

// chromeRef is the Chrome-specific element handle.
type chromeRef struct {
	node     *cdp.Node
	selector string
}

// NewChrome starts a browser and returns a renderer bound to one tab.
// Call Close when done to shut the browser down.
func NewChrome(ctx context.Context, opts ...ChromeOption) (*Chrome, error) {
	c := &Chrome{headless: true}
	for _, opt := range opts {
		opt(c)
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{},
		chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-extensions", true),
	)
	if c.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(c.userAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	c.ctx = tabCtx
	c.cancel = func() {
		tabCancel()
		allocCancel()
	}

	// Start the browser eagerly so failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		c.cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return c, nil
}

// Close shuts down the browser.
func (c *Chrome) Close() error {
	c.cancel()
	return nil
}

// Navigate loads the given URL.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := chromedp.Run(c.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// WaitForElement waits up to timeout for the selector to match a visible
// element. A deadline hit is reported as WaitTimedOut with a nil error.
func (c *Chrome) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (WaitResult, error) {
	if err := ctx.Err(); err != nil {
		return WaitTimedOut, err
	}

	waitCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, queryOption(selector)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return WaitTimedOut, nil
		}
		return WaitTimedOut, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return WaitFound, nil
}

// Click activates the referenced element. The click is dispatched as a
// mouse event on the resolved node, which also works for controls that
// only react to JavaScript handlers.
func (c *Chrome) Click(ctx context.Context, ref ElementRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cr, ok := ref.(*chromeRef)
	if !ok || cr.node == nil {
		return errors.New("click: element reference is not a chrome ref")
	}

	actions := []chromedp.Action{
		chromedp.ScrollIntoView(cr.selector, queryOption(cr.selector)),
		chromedp.MouseClickNode(cr.node),
	}
	if err := chromedp.Run(c.ctx, actions...); err != nil {
		return fmt.Errorf("click %s: %w", cr.selector, err)
	}
	return nil
}

// CurrentMarkup returns the full rendered document markup.
func (c *Chrome) CurrentMarkup(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(c.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return html, nil
}

// FindElement locates the first element matching selector.
func (c *Chrome) FindElement(ctx context.Context, selector string) (ElementRef, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var nodes []*cdp.Node
	err := chromedp.Run(c.ctx,
		chromedp.Nodes(selector, &nodes, queryOption(selector), chromedp.AtLeast(0)))
	if err != nil {
		return nil, false, fmt.Errorf("find %s: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return &chromeRef{node: nodes[0], selector: selector}, true, nil
}

// ElementAttributes returns the attribute map of the referenced element.
func (c *Chrome) ElementAttributes(ctx context.Context, ref ElementRef) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cr, ok := ref.(*chromeRef)
	if !ok || cr.node == nil {
		return nil, errors.New("attributes: element reference is not a chrome ref")
	}

	// cdp.Node carries attributes as a flat [name, value, ...] list.
	attrs := make(map[string]string, len(cr.node.Attributes)/2)
	for i := 0; i+1 < len(cr.node.Attributes); i += 2 {
		attrs[cr.node.Attributes[i]] = cr.node.Attributes[i+1]
	}
	return attrs, nil
}

// Screenshot captures the current viewport as PNG bytes.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf []byte
	if err := chromedp.Run(c.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

// queryOption picks the chromedp query mode for a selector.
// Selectors starting with "//" are XPath; everything else is CSS.
func queryOption(selector string) chromedp.QueryOption {
	if len(selector) >= 2 && selector[:2] == "//" {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
