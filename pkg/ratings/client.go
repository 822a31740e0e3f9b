package ratings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// DefaultTimeout bounds the external lookup. Enrichment is best-effort; the
// book page must not hang on a slow third party.
const DefaultTimeout = 3 * time.Second

// Rating is the external review data for a book.
type Rating struct {
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// Client looks up external ratings by ISBN. Implemented against the Google
// Books volumes API; swappable in tests.
type Client interface {
	Lookup(ctx context.Context, isbn string) (*Rating, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a ratings client. baseURL is the API root (e.g.
// "https://www.googleapis.com/books/v1"); a zero timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// volumesResponse mirrors the slice of the Google Books response we care
// about.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			AverageRating float64 `json:"averageRating"`
			RatingsCount  int     `json:"ratingsCount"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Lookup fetches the average rating and rating count for an ISBN. Any
// failure (network, timeout, bad status, malformed body) returns an error;
// callers treat all of them as "rating unavailable".
func (c *client) Lookup(ctx context.Context, isbn string) (*Rating, error) {
	lookupURL := fmt.Sprintf("%s/volumes?q=%s", c.baseURL, url.QueryEscape("isbn:"+isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("ratings lookup returned status %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(body.Items) == 0 {
		return nil, errors.Errorf("no rating data for isbn %s", isbn)
	}

	info := body.Items[0].VolumeInfo
	return &Rating{
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}, nil
}
