// Package senses fetches random dictionary senses and their example lyrics
// from a senses HTTP API and turns them into ingestable documents.
package senses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cognicore/lexicorp/pkg/lexicorp/ingest"
	"github.com/cognicore/lexicorp/pkg/lexicorp/internalerr"
)

// Client calls the senses API.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
	// Limiter paces outgoing requests; nil means unlimited.
	Limiter *rate.Limiter
}

// Sense identifies one dictionary sense.
type Sense struct {
	ID       string `json:"xml_id"`
	Headword string `json:"headword"`
}

type examplesResponse struct {
	Examples []struct {
		Lyric string `json:"lyric"`
	} `json:"examples"`
}

// RandomSense asks the service for a random sense.
func (c *Client) RandomSense(ctx context.Context) (Sense, error) {
	var s Sense
	if err := c.getJSON(ctx, "/senses/random/", &s); err != nil {
		return Sense{}, err
	}
	if s.ID == "" {
		return Sense{}, fmt.Errorf("%w: random sense has no xml_id", internalerr.ErrTransport)
	}
	return s, nil
}

// Examples returns the remaining example lyrics of a sense, in service order.
func (c *Client) Examples(ctx context.Context, senseID string) ([]string, error) {
	var payload examplesResponse
	if err := c.getJSON(ctx, "/senses/"+url.PathEscape(senseID)+"/remaining_examples/", &payload); err != nil {
		return nil, err
	}
	lyrics := make([]string, 0, len(payload.Examples))
	for _, ex := range payload.Examples {
		lyrics = append(lyrics, ex.Lyric)
	}
	return lyrics, nil
}

// FetchDocument picks a random sense and returns its examples as a document
// named "<slug(headword)>_<id>".
func (c *Client) FetchDocument(ctx context.Context) (ingest.Document, error) {
	sense, err := c.RandomSense(ctx)
	if err != nil {
		return ingest.Document{}, fmt.Errorf("random sense: %w", err)
	}
	lyrics, err := c.Examples(ctx, sense.ID)
	if err != nil {
		return ingest.Document{}, fmt.Errorf("examples for %s: %w", sense.ID, err)
	}
	sentences := make([]string, len(lyrics))
	for i, l := range lyrics {
		sentences[i] = PlainText(l)
	}
	return ingest.Document{
		Name:      Slugify(sense.Headword) + "_" + sense.ID,
		Sentences: sentences,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: senses base URL required", internalerr.ErrInvalidConfig)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait: %w", internalerr.ErrTransport, err)
		}
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", internalerr.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", internalerr.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: status %d: %s", internalerr.ErrTransport, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", internalerr.ErrTransport, endpoint, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
