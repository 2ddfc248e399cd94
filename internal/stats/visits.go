// Package stats provides the visit counter and the live-user estimate shown
// in the page header.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alkime/englishpro/internal/store"
)

// FallbackKey stores the local visit count used when the remote counter
// cannot be reached.
const FallbackKey = "total_visits_fallback"

// VisitCounter increments the shared remote counter and falls back to a
// local count when the remote is unavailable.
type VisitCounter struct {
	url    string
	offset int
	http   *http.Client
	kv     store.KV
	logger *slog.Logger
}

// NewVisitCounter creates a VisitCounter. offset is added to the remote
// count and seeds the local fallback.
func NewVisitCounter(url string, offset int, kv store.KV, logger *slog.Logger) *VisitCounter {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitCounter{
		url:    url,
		offset: offset,
		http:   &http.Client{Timeout: 10 * time.Second},
		kv:     kv,
		logger: logger,
	}
}

type counterResponse struct {
	Value *int `json:"value"`
}

// Increment records one visit and returns the total to display. A non-2xx
// response bumps the local fallback; a network failure only reads it.
func (v *VisitCounter) Increment(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build counter request: %w", err)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		v.logger.Warn("visit counter unreachable, reading local count", "error", err)
		return v.readFallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Warn("visit counter rejected request, counting locally", "status", resp.StatusCode)
		return v.bumpFallback()
	}

	var body counterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Value == nil {
		v.logger.Warn("visit counter sent an unreadable body, reading local count", "error", err)
		return v.readFallback()
	}

	return *body.Value + v.offset, nil
}

func (v *VisitCounter) readFallback() (int, error) {
	raw, ok, err := v.kv.Get(FallbackKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read local visit count: %w", err)
	}
	if !ok {
		return v.offset, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v.logger.Warn("local visit count is not a number, reseeding", "value", raw)
		return v.offset, nil
	}

	return n, nil
}

func (v *VisitCounter) bumpFallback() (int, error) {
	n, err := v.readFallback()
	if err != nil {
		return 0, err
	}

	n++
	if err := v.kv.Set(FallbackKey, strconv.Itoa(n)); err != nil {
		return 0, fmt.Errorf("failed to save local visit count: %w", err)
	}

	return n, nil
}
