package teskerti

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// browserPage is the chromedp-backed EventPage. Each Navigate opens a fresh
// tab so state from a previous event page cannot leak into the next one.
type browserPage struct {
	allocCtx context.Context
	timeout  time.Duration

	tabCtx context.Context
	cancel context.CancelFunc
}

func newBrowserPage(allocCtx context.Context, timeout time.Duration) *browserPage {
	return &browserPage{allocCtx: allocCtx, timeout: timeout}
}

func (p *browserPage) Navigate(url string) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.tabCtx, p.cancel = chromedp.NewContext(p.allocCtx)

	ctx, cancelTimeout := context.WithTimeout(p.tabCtx, p.timeout)
	defer cancelTimeout()

	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(1*time.Second),
	)
}

func (p *browserPage) BlocksText(selector string) ([]string, error) {
	if p.tabCtx == nil {
		return nil, errors.New("no page loaded")
	}

	ctx, cancelTimeout := context.WithTimeout(p.tabCtx, p.timeout)
	defer cancelTimeout()

	js := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(function(el) { return el.innerText || ''; })`,
		selector,
	)

	var texts []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &texts)); err != nil {
		return nil, err
	}
	return texts, nil
}

func (p *browserPage) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}
