package lanyard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Lanyard REST endpoint.
const DefaultBaseURL = "https://api.lanyard.rest"

// defaultTimeout bounds a single presence fetch. The poll interval is 15s,
// so a fetch that takes longer than this is not worth waiting for.
const defaultTimeout = 10 * time.Second

// ErrUserNotTracked is returned when the API responds successfully but
// carries no data: the user is not in the Lanyard Discord server, or is
// offline with no cached presence. This is a display state, not a failure.
var ErrUserNotTracked = errors.New("lanyard: user not tracked")

// ClientConfig configures a Client. The zero value uses the public API with
// the default timeout.
type ClientConfig struct {
	// BaseURL overrides the API host, mainly for tests.
	BaseURL string

	// Timeout bounds each request. Zero uses defaultTimeout.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// Client fetches presence snapshots from the Lanyard REST API. It is safe
// for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
}

// NewClient creates a Client from cfg, applying defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		httpc:     &http.Client{Timeout: timeout},
	}
}

// apiEnvelope is the wire format of every Lanyard REST response.
type apiEnvelope struct {
	Success bool      `json:"success"`
	Data    *Presence `json:"data"`
	Error   *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Presence fetches the current snapshot for userID. A successful response
// with a null data payload returns ErrUserNotTracked; any transport failure,
// non-2xx status, or malformed body returns a wrapped error.
func (c *Client) Presence(ctx context.Context, userID string) (*Presence, error) {
	if userID == "" {
		return nil, errors.New("lanyard: empty user ID")
	}

	url := c.baseURL + "/v1/users/" + userID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lanyard: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lanyard: fetch presence: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lanyard: unexpected status %s", resp.Status)
	}

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("lanyard: decode response: %w", err)
	}

	if !env.Success {
		if env.Error != nil && env.Error.Message != "" {
			return nil, fmt.Errorf("lanyard: api error %s: %s", env.Error.Code, env.Error.Message)
		}
		return nil, errors.New("lanyard: api reported failure")
	}
	if env.Data == nil {
		return nil, ErrUserNotTracked
	}
	return env.Data, nil
}
