package icsfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"campusevents/internal/domain"
)

// MaxBodyBytes caps the size of a downloaded calendar.
const MaxBodyBytes = 1 << 20

const defaultTimeout = 15 * time.Second

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher that downloads calendars over HTTP(S).
func NewHTTPFetcher(client *http.Client) domain.CalendarFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &httpFetcher{client: client}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.InvalidInputf("url must be an absolute http or https URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: calendar url returned status %d", domain.ErrInvalidInput, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, domain.InvalidInputf("calendar exceeds %d bytes", MaxBodyBytes)
	}
	return body, nil
}
