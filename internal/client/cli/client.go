package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin wrapper over the server's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type credentialsRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Vector   []float32 `json:"vector"`
}

// Profile mirrors the server's public user view.
type Profile struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult mirrors the server's login response.
type LoginResult struct {
	Similarity  float64 `json:"similarity"`
	AccessToken string  `json:"access_token"`
	Profile     Profile `json:"profile"`
}

type apiError struct {
	Error      string   `json:"error"`
	Similarity *float64 `json:"similarity,omitempty"`
}

func (c *Client) Register(ctx context.Context, username, password string, vector []float32) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users",
		credentialsRequest{Username: username, Password: password, Vector: vector}, &resp)
	return resp.Count, err
}

func (c *Client) Login(ctx context.Context, username, password string, vector []float32) (*LoginResult, error) {
	resp := &LoginResult{}
	err := c.do(ctx, http.MethodPost, "/api/login",
		credentialsRequest{Username: username, Password: password, Vector: vector}, resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &profiles)
	return profiles, err
}

func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+username, nil, nil)
}

func (c *Client) Count(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/count", nil, &resp)
	return resp.Count, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			if apiErr.Similarity != nil {
				return fmt.Errorf("server: %s (similarity %.4f)", apiErr.Error, *apiErr.Similarity)
			}
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
