package teskerti

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/FDT12/TN-by-Night-B/config"
	"github.com/FDT12/TN-by-Night-B/models"
	"github.com/FDT12/TN-by-Night-B/monitoring"
	"github.com/FDT12/TN-by-Night-B/utils"
)

// Scraper drives one crawl run against the teskerti listing: fetch and
// deduplicate the listing, then resolve each event's city sequentially.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	metrics *monitoring.Metrics
	seen    *utils.URLSet
	pacer   *utils.Pacer
	retry   *utils.RetryConfig
	base    *url.URL
}

// New creates a ready-to-use Scraper for the configured listing URL.
func New(cfg *config.Config, logger *utils.Logger, metrics *monitoring.Metrics) (*Scraper, error) {
	listing, err := url.Parse(cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("[teskerti] invalid listing URL %q: %w", cfg.ListingURL, err)
	}
	base := &url.URL{Scheme: listing.Scheme, Host: listing.Host}

	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		seen:    utils.NewURLSet(),
		pacer:   utils.NewPacer(cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		base: base,
	}, nil
}

// eventCard mirrors the fields extracted per listing item in the browser.
type eventCard struct {
	Name  string `json:"name"`
	Place string `json:"place"`
	Date  string `json:"date"`
	Price string `json:"price"`
	Href  string `json:"href"`
}

// Run performs a full crawl: listing fetch, dedup, then the paced per-event
// city resolution loop. A cancelled context stops resolution between events
// and returns the partially resolved list.
func (s *Scraper) Run(ctx context.Context) ([]*models.Event, error) {
	start := time.Now()

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[teskerti] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	allocCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	events, err := s.scrapeListing(allocCtx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[teskerti] Extracted %d events", len(events))

	page := newBrowserPage(allocCtx, time.Duration(s.cfg.NavTimeoutSec)*time.Second)
	defer page.Close()

	s.resolveCities(ctx, page, events)

	s.metrics.ObserveCrawlDuration(time.Since(start))
	return events, nil
}

// scrapeListing loads the listing page, triggers the one-shot "load more"
// expansion and extracts every item container present at that point. Failure
// to find the primary container is fatal for the run.
func (s *Scraper) scrapeListing(allocCtx context.Context) ([]*models.Event, error) {
	var cards []eventCard

	err := s.retry.Do(allocCtx, "listing-fetch", func() error {
		ctx, cancel := context.WithTimeout(allocCtx, time.Duration(s.cfg.ListingTimeoutSec)*time.Second)
		defer cancel()

		if err := chromedp.Run(ctx, chromedp.Navigate(s.cfg.ListingURL)); err != nil {
			return fmt.Errorf("navigate %s: %w", s.cfg.ListingURL, err)
		}
		if err := chromedp.Run(ctx, chromedp.WaitReady("div.tour_container", chromedp.ByQuery)); err != nil {
			return fmt.Errorf("listing container not found: %w", err)
		}

		return chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`
				(function() {
					var btn = document.querySelector('#load_more');
					if (btn && btn.offsetParent !== null) {
						btn.click();
						return true;
					}
					return false;
				})()
			`, nil),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`
				(function() {
					var results = [];
					var containers = document.querySelectorAll('div.tour_container');
					for (var i = 0; i < containers.length; i++) {
						var c = containers[i];
						var link = c.querySelector('.img_container a');
						var titleEl = c.querySelector('.tour_title h3 strong') ||
						              c.querySelector('.tour_title h3');
						var placeEl = c.querySelector('.short_info');
						var dateEl = c.querySelector('.rating small');
						var priceEl = c.querySelector('.short_info .price');

						results.push({
							href:  link ? (link.getAttribute('href') || '') : '',
							name:  titleEl ? titleEl.innerText.trim() : '',
							place: placeEl ? placeEl.innerText.split('\n')[0].trim() : '',
							date:  dateEl ? dateEl.innerText.trim() : '',
							price: priceEl ? priceEl.innerText.trim() : ''
						});
					}
					return results;
				})()
			`, &cards),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("[teskerti] listing fetch failed: %w", err)
	}

	return s.collectEvents(cards), nil
}

// collectEvents turns raw cards into pending events: resolves relative
// links against the site origin, drops items without a usable link and
// deduplicates by URL keeping the first occurrence.
func (s *Scraper) collectEvents(cards []eventCard) []*models.Event {
	events := make([]*models.Event, 0, len(cards))

	for _, card := range cards {
		if card.Href == "" {
			continue
		}

		href, err := utils.ToAbsoluteURL(s.base, card.Href)
		if err != nil {
			s.logger.Warn("[teskerti] Skipping unparsable link %q: %v", card.Href, err)
			continue
		}

		if !s.seen.Add(href) {
			s.logger.Debug("[teskerti] Skipping duplicate: %s", href)
			continue
		}

		events = append(events, &models.Event{
			Name:      fallback(card.Name, "Unknown"),
			Place:     fallback(card.Place, "N/A"),
			Date:      fallback(card.Date, "N/A"),
			Price:     fallback(card.Price, "N/A"),
			URL:       href,
			City:      models.CityPending,
			ScrapedAt: time.Now(),
		})
		s.metrics.IncDiscovered()
	}

	return events
}

// resolveCities fills in each event's city, strictly one page at a time with
// a fixed delay between events. "Unknown" is coerced to the configured
// default city; "Error" is preserved so failed resolutions stay visible.
func (s *Scraper) resolveCities(ctx context.Context, page EventPage, events []*models.Event) {
	for i, ev := range events {
		if ctx.Err() != nil {
			s.logger.Warn("[teskerti] Run cancelled — resolved %d/%d events", i, len(events))
			return
		}

		s.logger.Info("[teskerti] [%d/%d] %s", i+1, len(events), truncate(ev.Name, 40))

		city := ResolveCity(page, ev.URL, ev.Name)
		switch city {
		case models.CityUnknown:
			// Geo-unresolvable events are assumed to belong to the capital region.
			ev.City = s.cfg.DefaultCity
			s.metrics.IncResolveOutcome("unknown")
		case models.CityError:
			ev.City = models.CityError
			s.metrics.IncResolveOutcome("error")
		default:
			ev.City = city
			s.metrics.IncResolveOutcome("resolved")
		}

		if err := s.pacer.Wait(ctx); err != nil {
			s.logger.Warn("[teskerti] Run cancelled — resolved %d/%d events", i+1, len(events))
			return
		}
	}
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// truncate shortens s to max characters. It counts runes, not bytes, so
// accented event names are never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
