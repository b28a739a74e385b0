package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pages "go-currency-pages"
)

const ApiUrlBase = "https://open.er-api.com/v6"

// Service provides rate-table snapshots for a base currency. Tables are
// read-only once returned; callers must not mutate them.
type Service interface {
	Table(ctx context.Context, base pages.Currency) (pages.RateTable, error)
}

// service wraps the upstream exchange-rate REST API
type service struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid upstream Service.
func NewService(url string) Service {
	return &service{
		url: url,
		client: http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Table loads the current rate table for a base currency. Upstream rates
// update about once an hour.
func (s *service) Table(ctx context.Context, base pages.Currency) (pages.RateTable, error) {
	type Response struct {
		Result             string             `json:"result"`
		BaseCode           string             `json:"base_code"`
		Rates              map[string]float64 `json:"rates"`
		TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	}

	url := fmt.Sprintf("%v/latest/%v", s.url, base)

	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return pages.RateTable{}, fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return pages.RateTable{}, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return pages.RateTable{}, fmt.Errorf("upstream status %v: %w", httpResponse.StatusCode, pages.ErrUpstreamUnavailable)
	}

	var response Response
	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return pages.RateTable{}, fmt.Errorf("reading json: %w", err)
	}

	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return pages.RateTable{}, fmt.Errorf("decoding json: %w", err)
	}

	if response.Result != "success" || len(response.Rates) == 0 {
		return pages.RateTable{}, fmt.Errorf("upstream result %q: %w", response.Result, pages.ErrUpstreamUnavailable)
	}

	rates := pages.Rates{}
	for k, v := range response.Rates {
		code, err := pages.ParseCurrency(k)
		if err != nil || code == base {
			// Upstream lists the base against itself as 1; the table keeps
			// the base implicit.
			continue
		}
		if v <= 0 {
			return pages.RateTable{}, fmt.Errorf("bad rate value %v for %v: %w", v, k, pages.ErrUpstreamUnavailable)
		}
		rates[code] = pages.Rate(v)
	}

	return pages.RateTable{
		Base:  base,
		AsOf:  time.Unix(response.TimeLastUpdateUnix, 0).UTC(),
		Rates: rates,
	}, nil
}
