package aliasdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrAliasNotFound      = errors.New("alias not found")
	ErrUnexpectedResponse = errors.New("unexpected alias directory response")
)

// LookupResult is the directory's answer for a known alias: the
// underlying opaque token value plus issuance metadata.
type LookupResult struct {
	Token    string            `json:"token"`
	Metadata map[string]string `json:"metadata"`
}

// Client talks to the external alias directory, which maps short
// human-friendly codes (QR aliases, course codes) to opaque tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup resolves an alias to its token value.
// Returns ErrAliasNotFound for unknown aliases, ErrUnexpectedResponse
// for any reply the directory contract does not cover.
func (c *Client) Lookup(ctx context.Context, alias string) (*LookupResult, error) {
	endpoint := fmt.Sprintf("%s/api/aliases/%s", c.baseURL, url.PathEscape(alias))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build alias request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alias directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result LookupResult
		err = json.NewDecoder(resp.Body).Decode(&result)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
		}
		if result.Token == "" {
			return nil, fmt.Errorf("%w: empty token for alias", ErrUnexpectedResponse)
		}
		return &result, nil
	case http.StatusNotFound:
		return nil, ErrAliasNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
}
