package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const fearGreedEndpoint = "https://api.alternative.me/fng/?limit=1"

// FearGreed reads the alternative.me Fear & Greed index. Responses are
// cached for the configured TTL, the index only changes daily.
type FearGreed struct {
	client *http.Client
	ttl    time.Duration

	mu        sync.Mutex
	value     int
	label     string
	fetchedAt time.Time
}

// NewFearGreed creates a Fear & Greed reader with the given cache TTL
func NewFearGreed(ttl time.Duration) *FearGreed {
	return &FearGreed{
		client: &http.Client{Timeout: 10 * time.Second},
		ttl:    ttl,
	}
}

type fearGreedResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// Index returns the current index value and classification label
func (f *FearGreed) Index(ctx context.Context) (int, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fetchedAt.IsZero() && time.Since(f.fetchedAt) < f.ttl {
		return f.value, f.label, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fearGreedEndpoint, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("fear & greed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("fear & greed request failed: status %d", resp.StatusCode)
	}

	var payload fearGreedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, "", fmt.Errorf("fear & greed decode failed: %w", err)
	}
	if len(payload.Data) == 0 {
		return 0, "", fmt.Errorf("fear & greed response is empty")
	}

	value, err := strconv.Atoi(payload.Data[0].Value)
	if err != nil {
		return 0, "", fmt.Errorf("fear & greed value is not numeric: %w", err)
	}

	f.value = value
	f.label = payload.Data[0].Classification
	f.fetchedAt = time.Now()

	return f.value, f.label, nil
}
