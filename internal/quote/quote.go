// Package quote provides an HTTP-backed QuoteSource for the engine's
// Stock() function, with a background cache refreshed on a cron schedule
// so repeated evaluations of the same symbol don't each pay for a round
// trip.
//
// Grounded on the teacher's evalHTTPFunc (a plain http.Client.Get with a
// fixed timeout): the fetch itself is the same shape, trimmed to one URL
// pattern instead of a general-purpose http()/http_get()/http_post() trio.
package quote

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/caldyne/formula/internal/engine"
)

// HTTPSource fetches a quote by formatting Symbol into URLTemplate (which
// must contain exactly one "%s") and reading the response body as the
// quote text.
type HTTPSource struct {
	URLTemplate string
	Client      *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

// NewHTTPSource returns a source that fetches "<urlTemplate>" per symbol,
// with a 10-second request timeout.
func NewHTTPSource(urlTemplate string) *HTTPSource {
	return &HTTPSource{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: 10 * time.Second},
		cache:       make(map[string]string),
	}
}

// Quote implements engine.QuoteSource, serving from cache when present.
func (s *HTTPSource) Quote(symbol string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[symbol]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()
	return s.fetch(symbol)
}

func (s *HTTPSource) fetch(symbol string) (string, error) {
	url := fmt.Sprintf(s.URLTemplate, symbol)
	resp, err := s.Client.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "fetching quote for %q", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("fetching quote for %q: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading quote body for %q", symbol)
	}
	text := strings.TrimSpace(string(body))

	s.mu.Lock()
	s.cache[symbol] = text
	s.mu.Unlock()
	return text, nil
}

// Refresher re-fetches a fixed set of symbols on a cron schedule, keeping
// HTTPSource's cache warm so Stock() calls made during evaluation never
// block on a network round trip.
type Refresher struct {
	source  *HTTPSource
	symbols []string
	cr      *cron.Cron
}

// NewRefresher schedules a refresh of symbols according to spec, e.g.
// "@every 1m". Start must be called to begin refreshing.
func NewRefresher(source *HTTPSource, symbols []string, spec string) (*Refresher, error) {
	r := &Refresher{source: source, symbols: symbols, cr: cron.New()}
	_, err := r.cr.AddFunc(spec, r.refreshAll)
	if err != nil {
		return nil, errors.Wrap(err, "scheduling quote refresh")
	}
	return r, nil
}

func (r *Refresher) refreshAll() {
	for _, sym := range r.symbols {
		r.source.fetch(sym) //nolint:errcheck // best-effort cache warm; Stock() still retries on miss
	}
}

// Start begins the cron schedule in the background.
func (r *Refresher) Start() { r.cr.Start() }

// Stop halts the cron schedule, waiting for any in-flight job to finish.
func (r *Refresher) Stop() { <-r.cr.Stop().Done() }

var _ engine.QuoteSource = (*HTTPSource)(nil)
