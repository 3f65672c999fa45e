package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const forumAuthTimeout = 5 * time.Second

// HTTPForumClient implements ForumAuthClient against the external forum
// system over plain JSON/HTTP, mirroring the teacher's small
// single-purpose repository-shaped structs rather than a generic client.
type HTTPForumClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPForumClient constructs an HTTPForumClient bound to baseURL.
func NewHTTPForumClient(baseURL string) *HTTPForumClient {
	return &HTTPForumClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: forumAuthTimeout},
	}
}

type forumAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type forumAuthResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Verify delegates credential checking to the forum system. The forum's
// actual integration is black-boxed per scope — this is a thin
// request/response adapter, not a reimplementation of forum auth.
func (c *HTTPForumClient) Verify(ctx context.Context, username, password string) (string, string, error) {
	body, err := json.Marshal(forumAuthRequest{Username: username, Password: password})
	if err != nil {
		return "", "", fmt.Errorf("encoding forum auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/verify", strings.NewReader(string(body)))
	if err != nil {
		return "", "", fmt.Errorf("building forum auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("calling forum auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", "", ErrAuthInvalid
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("forum auth returned status %d", resp.StatusCode)
	}

	var out forumAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decoding forum auth response: %w", err)
	}
	return out.UserID, out.DisplayName, nil
}
