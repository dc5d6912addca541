package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookmarket/pkg/domain"
)

// Client calls the marketplace backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError represents a backend error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewClient constructs a backend client. Every request carries the client
// timeout so a dead backend degrades instead of hanging the caller.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LoginResult is the payload of a successful authentication.
type LoginResult struct {
	User          domain.Identity       `json:"user"`
	Token         string                `json:"token"`
	AccountStatus *domain.AccountStatus `json:"accountStatus,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return LoginResult{}, err
	}
	return resp, nil
}

// RegisterRequest carries the sign-up form fields.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (domain.Identity, error) {
	var resp struct {
		User domain.Identity `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return domain.Identity{}, err
	}
	return resp.User, nil
}

func (c *Client) Deactivate(ctx context.Context, token string) (domain.Identity, error) {
	var resp struct {
		User domain.Identity `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users/deactivate", token, nil, &resp); err != nil {
		return domain.Identity{}, err
	}
	return resp.User, nil
}

func (c *Client) Activate(ctx context.Context, token string) (domain.Identity, error) {
	var resp struct {
		User domain.Identity `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users/activate", token, nil, &resp); err != nil {
		return domain.Identity{}, err
	}
	return resp.User, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token, password string) error {
	payload := map[string]string{"password": password}
	return c.doJSON(ctx, http.MethodDelete, "/users/account", token, payload, nil)
}

func (c *Client) Books(ctx context.Context) ([]domain.Book, error) {
	var resp struct {
		Success bool          `json:"success"`
		Books   []domain.Book `json:"books"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/books", "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("books listing reported failure")
	}
	return resp.Books, nil
}

func (c *Client) SampleBooks(ctx context.Context) ([]domain.Book, error) {
	var resp struct {
		Success bool          `json:"success"`
		Books   []domain.Book `json:"books"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/books/sample", "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("sample listing reported failure")
	}
	return resp.Books, nil
}

func (c *Client) Recommendations(ctx context.Context, recType string, limit int) ([]domain.Book, error) {
	q := url.Values{}
	if recType != "" {
		q.Set("type", recType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Success         bool          `json:"success"`
		Recommendations []domain.Book `json:"recommendations"`
	}
	path := "/ai/recommendations?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("recommendations reported failure")
	}
	return resp.Recommendations, nil
}

func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	q := url.Values{}
	q.Set("query", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Success     bool                `json:"success"`
		Suggestions []domain.Suggestion `json:"suggestions"`
	}
	path := "/ai/search/autocomplete?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("autocomplete reported failure")
	}
	return resp.Suggestions, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	return nil
}
