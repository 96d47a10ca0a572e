package scraper

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

// Desktop browser identities the fetcher rotates through. Listing sites
// serve stripped responses to obvious bots.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36",
}

// Fetcher retrieves a listing page as raw HTML. By default it performs a
// single plain GET with browser-like headers; with renderJS enabled it
// drives a headless browser instead, for pages that are script-rendered.
type Fetcher struct {
	client   *http.Client
	renderJS bool
}

func NewFetcher(timeout time.Duration, renderJS bool) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		renderJS: renderJS,
	}
}

// Fetch performs one outbound request and returns the response body as
// text. No retries; redirects follow the transport default.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.renderJS {
		return f.fetchRendered(ctx, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return string(body), nil
}

func (f *Fetcher) fetchRendered(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", ""),
		chromedp.Flag("disable-dev-shm-usage", ""),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return htmlContent, nil
}
