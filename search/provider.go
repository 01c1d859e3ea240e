package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/the-web-girl/My-Library-App/model"
)

const userAgent = "My-Library-App/0.2 (https://github.com/the-web-girl/My-Library-App)"

// Provider is a read-only external book catalog. Implementations are
// treated as unreliable, their failures never escape the fan-out.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

// client bundles what every provider needs to talk to its endpoint.
type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newClient(timeout time.Duration, ratePerSec int) client {
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	return client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(ratePerSec)), ratePerSec),
	}
}

// getJSON performs a rate-limited GET and decodes the body into out.
// Every failure is wrapped as an upstream error.
func (c client) getJSON(ctx context.Context, url string, header http.Header, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(model.ErrUpstream, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(model.ErrUpstream, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(model.ErrUpstream, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(model.ErrUpstream, "unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(model.ErrUpstream, err.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(model.ErrUpstream, err.Error())
	}
	return nil
}
