package calendar

import (
	"context"
	"io"
	"net/http"

	"sensea-booking/internal/pkg/config"
	"sensea-booking/internal/pkg/errs"
)

// Feed downloads the raw iCal document.
type Feed interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type httpFeed struct {
	url       string
	userAgent string
	client    *http.Client
}

func NewHTTPFeed(cfg config.CalendarConfig) Feed {
	return &httpFeed{
		url:       cfg.FeedURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// maxFeedBytes bounds the response body; a calendar feed past this size is
// broken upstream.
const maxFeedBytes = 10 << 20

func (f *httpFeed) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build feed request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/calendar")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch calendar feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New("calendar feed returned status " + resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, errs.Wrap(err, "failed to read calendar feed body")
	}
	return body, nil
}
