package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"so4tdelete/internal/deletion/client"
	"so4tdelete/internal/deletion/util"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// loginCompleteSelector matches the user card shown once a login has finished.
const loginCompleteSelector = ".s-user-card"

// BrowserProvider opens a visible Chrome window on the site and waits for
// the user to log in, then takes the cookies of that browser session.
type BrowserProvider struct {
	Timeout time.Duration
	Out     io.Writer
	Logger  *slog.Logger
}

func NewBrowserProvider(timeout time.Duration, out io.Writer) *BrowserProvider {
	return &BrowserProvider{
		Timeout: timeout,
		Out:     out,
		Logger:  util.GetLogger(),
	}
}

func (p *BrowserProvider) Provide(ctx context.Context, baseURL string) (*Session, error) {
	if err := client.NewTeamsClient(baseURL, nil).CheckReachable(ctx); err != nil {
		return nil, fmt.Errorf("%w; please check your URL and try again", err)
	}

	if p.Out != nil {
		fmt.Fprintln(p.Out, "Opening a Chrome window to authenticate Stack Overflow for Teams...")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(500, 800),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, p.Timeout)
		defer cancel()
	}

	var cookies []*network.Cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(baseURL),
		chromedp.WaitVisible(loginCompleteSelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser login: %w", err)
	}
	p.Logger.Debug("Browser login complete", "cookies", len(cookies))

	return &Session{
		BaseURL:   baseURL,
		Cookies:   fromBrowserCookies(cookies),
		CreatedAt: time.Now(),
	}, nil
}

func fromBrowserCookies(in []*network.Cookie) []Cookie {
	out := make([]Cookie, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		cookie := Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		// Session cookies report an expiry of -1.
		if c.Expires > 0 {
			sec, frac := math.Modf(c.Expires)
			cookie.Expires = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		}
		out = append(out, cookie)
	}
	return out
}
