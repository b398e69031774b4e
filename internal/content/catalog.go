package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrCatalogUnavailable wraps any failure to retrieve the active item list.
// Interstitial content is non-critical: callers treat this as "no session",
// never as something to surface or retry.
var ErrCatalogUnavailable = errors.New("content catalog unavailable")

// Catalog retrieves the ordered list of active interstitial items from the
// portal backend.
type Catalog struct {
	baseURL string
	client  *http.Client
}

// NewCatalog creates a Catalog for the given backend base URL.
func NewCatalog(baseURL string, timeout time.Duration) *Catalog {
	return &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Active fetches all active content items, ordered by creation as the
// backend returns them. The result is already normalized: inactive items
// removed, durations clamped. A nil error with an empty slice means the
// backend genuinely has nothing to show.
func (c *Catalog) Active(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/interstitials", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("User-Agent", "interstitial/0.1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCatalogUnavailable, err)
	}

	return Normalize(items), nil
}
