package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pages "go-currency-pages"
	"go-currency-pages/caching"
	"go-currency-pages/exchange"
	"go-currency-pages/rates"
	"go-currency-pages/render"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Exchange  exchange.Service
	Rates     rates.Service
	Renderer  *render.Renderer
	Policy    caching.Policy
	Base      pages.Currency
	StaticDir string
	Source    string
	Logger    log.Logger
	router    http.ServeMux
}

func NewServer(s *Server) *Server {
	if s.Logger == nil {
		s.Logger = log.NewNopLogger()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Handle("/", s.page())
	s.router.Handle("/api/rate", s.rate())
	s.router.Handle("/api/rates", s.rateTable())
	s.router.Handle("/static/", http.StripPrefix("/static/", s.static()))
	s.router.Handle("/healthz", s.health())
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// page produces the HTTP handler for conversion result pages:
// GET /{from}-to-{to}[/{amount}]. The bare root redirects to a default
// pair.
func (s *Server) page() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/" {
			http.Redirect(rw, r, "/usd-to-eur", http.StatusFound)
			return
		}

		segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(segments) > 2 {
			s.fail(rw, fmt.Errorf("no conversion page %q: %w", r.URL.Path, pages.ErrRateNotFound))
			return
		}
		from, to, err := parsePair(segments[0])
		if err != nil {
			s.fail(rw, err)
			return
		}
		var rawAmount string
		if len(segments) == 2 {
			rawAmount = segments[1]
		}
		amount, err := parseAmount(rawAmount)
		if err != nil {
			s.fail(rw, err)
			return
		}

		quote, err := s.Exchange.Quote(r.Context(), from, to, amount)
		if err != nil {
			s.fail(rw, err)
			return
		}

		// The template must be open before any byte goes out; a failed
		// render never returns partial HTML.
		doc, err := s.Renderer.Page(r.Context(), quote)
		if err != nil {
			s.fail(rw, err)
			return
		}
		defer doc.Close()

		caching.Apply(rw.Header(), s.Policy.ForResponse(r.Method, true))
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := doc.WriteTo(r.Context(), rw); err != nil {
			// Headers are gone; all we can do is stop and log.
			s.Logger.Log("msg", "aborted mid-stream", "from", from, "to", to, "err", err)
		}
	}
}

// rate produces the HTTP handler for the plain-text rate API:
// GET /api/rate?from=X&to=Y
func (s *Server) rate() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		allowCrossOrigin(rw.Header())

		from, err := parseCode(r.URL.Query().Get("from"))
		if err != nil {
			s.fail(rw, err)
			return
		}
		to, err := parseCode(r.URL.Query().Get("to"))
		if err != nil {
			s.fail(rw, err)
			return
		}

		quote, err := s.Exchange.Quote(r.Context(), from, to, 1)
		if err != nil {
			s.fail(rw, err)
			return
		}

		caching.Apply(rw.Header(), s.Policy.ForResponse(r.Method, true))
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(rw, strconv.FormatFloat(float64(quote.Rate), 'f', -1, 64))
	}
}

// rateTable produces the HTTP handler for the JSON rates API:
// GET /api/rates?base=X
func (s *Server) rateTable() http.HandlerFunc {

	// response for marshalling JSON responses to return to clients
	type response struct {
		Success   bool           `json:"success"`
		Base      pages.Currency `json:"base"`
		Rates     pages.Rates    `json:"rates"`
		Timestamp int64          `json:"timestamp"`
		Source    string         `json:"source"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		allowCrossOrigin(rw.Header())
		rw.Header().Set("Content-Type", "application/json")

		base := s.Base
		if raw := r.URL.Query().Get("base"); raw != "" {
			var err error
			base, err = parseCode(raw)
			if err != nil {
				s.failJSON(rw, err)
				return
			}
		}

		table, err := s.Rates.Table(r.Context(), base)
		if err != nil {
			s.failJSON(rw, err)
			return
		}

		caching.Apply(rw.Header(), s.Policy.ForResponse(r.Method, true))
		enc := json.NewEncoder(rw)
		err = enc.Encode(&response{
			Success:   true,
			Base:      table.Base,
			Rates:     table.Rates,
			Timestamp: table.AsOf.Unix(),
			Source:    s.Source,
		})
		if err != nil {
			s.Logger.Log("msg", "encoding rates response", "err", err)
		}
	}
}

// static serves assets with cacheable headers; asset bytes do not depend
// on mutable rate data.
func (s *Server) static() http.Handler {
	files := http.FileServer(http.Dir(s.StaticDir))
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		caching.Apply(rw.Header(), s.Policy.ForResponse(r.Method, false))
		files.ServeHTTP(rw, r)
	})
}

func (s *Server) health() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(rw, "ok")
	}
}

// fail maps the error taxonomy onto status codes. Error bodies carry the
// message, never a stack trace. Error responses are never cacheable.
func (s *Server) fail(rw http.ResponseWriter, err error) {
	caching.Apply(rw.Header(), caching.Directive{Bypass: true})
	switch {
	case errors.Is(err, pages.ErrInvalidInput):
		http.Error(rw, "Invalid amount", http.StatusBadRequest)
	case errors.Is(err, pages.ErrTemplateUnavailable):
		http.Error(rw, "Template not found", http.StatusNotFound)
	case errors.Is(err, pages.ErrRateNotFound):
		http.Error(rw, "Conversion not available", http.StatusNotFound)
	case errors.Is(err, pages.ErrUpstreamUnavailable):
		http.Error(rw, "Exchange rates not available", http.StatusServiceUnavailable)
	default:
		s.Logger.Log("msg", "internal error", "err", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
	}
}

// failJSON is fail for the JSON API surface.
func (s *Server) failJSON(rw http.ResponseWriter, err error) {
	caching.Apply(rw.Header(), caching.Directive{Bypass: true})
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pages.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, pages.ErrRateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pages.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	default:
		s.Logger.Log("msg", "internal error", "err", err)
	}
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func allowCrossOrigin(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// parsePair splits a "{from}-to-{to}" path segment. A malformed pair is a
// page that does not exist, not a client fault, so it maps to not-found.
func parsePair(pair string) (pages.Currency, pages.Currency, error) {
	rawFrom, rawTo, ok := strings.Cut(pair, "-to-")
	if !ok {
		return "", "", fmt.Errorf("no conversion page %q: %w", pair, pages.ErrRateNotFound)
	}
	from, err := pages.ParseCurrency(rawFrom)
	if err != nil {
		return "", "", fmt.Errorf("no conversion page %q: %w", pair, pages.ErrRateNotFound)
	}
	to, err := pages.ParseCurrency(rawTo)
	if err != nil {
		return "", "", fmt.Errorf("no conversion page %q: %w", pair, pages.ErrRateNotFound)
	}
	return from, to, nil
}

// parseCode validates a query-string currency code. A bad code means the
// requested rate does not exist.
func parseCode(raw string) (pages.Currency, error) {
	code, err := pages.ParseCurrency(raw)
	if err != nil {
		return "", fmt.Errorf("no rate for %q: %w", raw, pages.ErrRateNotFound)
	}
	return code, nil
}

// parseAmount parses the optional amount path segment; absent means 1.
func parseAmount(raw string) (pages.Amount, error) {
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("amount %q: %w", raw, pages.ErrInvalidInput)
	}
	return pages.Amount(v), nil
}
