// Package vk provides a client for the VK API used to look up lead profiles.
// All call sites treat lookup failures as a degraded result, never as a
// failure of the triggering operation.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"collector_backend/platform/apperr"
	"collector_backend/platform/config"
	"collector_backend/platform/logger"
)

// Profile is the subset of a VK user profile the application cares about.
type Profile struct {
	FullName string
	PhotoURL string
}

// Client calls the VK users.get method with a service token.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	http       *http.Client
	log        *logger.Logger
}

type usersGetResponse struct {
	Response []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Photo200  string `json:"photo_200"`
	} `json:"response"`
	Error *struct {
		ErrorCode int    `json:"error_code"`
		ErrorMsg  string `json:"error_msg"`
	} `json:"error"`
}

// NewClient creates a VK profile lookup client. Returns nil when no service
// token is configured; a nil client reports Unavailable for every lookup.
func NewClient(cfg config.VKConfig, log *logger.Logger) *Client {
	if !cfg.IsVKLookupEnabled() {
		return nil
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.GetVKAPIBaseURL(), "/"),
		token:      cfg.GetVKServiceToken(),
		apiVersion: cfg.GetVKAPIVersion(),
		http:       &http.Client{Timeout: cfg.GetVKLookupTimeout()},
		log:        log,
	}
}

// Lookup fetches the display name and photo for a VK user id.
func (c *Client) Lookup(ctx context.Context, vkID string) (Profile, error) {
	if c == nil {
		return Profile{}, apperr.Unavailable("profile lookup is not configured")
	}

	params := url.Values{}
	params.Set("user_ids", vkID)
	params.Set("fields", "photo_200")
	params.Set("access_token", c.token)
	params.Set("v", c.apiVersion)

	reqURL := fmt.Sprintf("%s/method/users.get?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, apperr.Wrap(apperr.KindUnavailable, "profile lookup failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return Profile{}, apperr.Unavailable(fmt.Sprintf(
			"profile lookup returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)),
		))
	}

	var parsed usersGetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Profile{}, apperr.Wrap(apperr.KindUnavailable, "decode profile lookup response", err)
	}
	if parsed.Error != nil {
		return Profile{}, apperr.Unavailable(fmt.Sprintf(
			"profile lookup error %d: %s", parsed.Error.ErrorCode, parsed.Error.ErrorMsg,
		))
	}
	if len(parsed.Response) == 0 {
		return Profile{}, apperr.NotFound("vk user not found")
	}

	user := parsed.Response[0]
	return Profile{
		FullName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		PhotoURL: user.Photo200,
	}, nil
}
