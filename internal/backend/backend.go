// Package backend is the JSON client for the career-compass API.
//
// The auth endpoints answer with a model.APIResponse; the career endpoints
// with their own envelopes carrying the same success flag. A transport
// failure, a
// non-2xx status or an unreadable body is reported as apperror.ErrBackend;
// a well-formed {"success": false} is returned as a response, not an error,
// so callers can show the backend's own message.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/model"
)

// Endpoint paths.
const (
	PathRegister         = "/api/register"
	PathLogin            = "/api/login"
	PathGoogle           = "/auth/google"
	PathLinkedIn         = "/auth/linkedin"
	PathLinkedInExchange = "/auth/linkedin/exchange"
	PathLogout           = "/auth/logout"
	PathAssess           = "/api/assess"
	PathLearningPath     = "/api/learning-path"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember,omitempty"`
}

// GoogleAuthRequest is the body of POST /auth/google. Token is the raw
// credential; the backend is expected to verify its signature.
type GoogleAuthRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
	GoogleID string `json:"google_id"`
}

// LinkedInAuthRequest is the body of POST /auth/linkedin.
type LinkedInAuthRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	LinkedInID string `json:"linkedin_id"`
	Picture    string `json:"picture,omitempty"`
}

// LinkedInExchangeRequest is the body of POST /auth/linkedin/exchange.
type LinkedInExchangeRequest struct {
	Code string `json:"code"`
}

// UserRef is a user id as the career endpoints expect it: a JSON number when
// the id is an integer, a string otherwise.
type UserRef string

func (r UserRef) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(r), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(r))
}

// AssessRequest is the body of POST /api/assess. The dashboard sends only
// the user; the assessment form adds its answers.
type AssessRequest struct {
	UserID      UserRef  `json:"user_id"`
	Skills      []string `json:"skills,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	FutureGoals string   `json:"future_goals,omitempty"`
}

// LearningPathRequest is the body of POST /api/learning-path.
type LearningPathRequest struct {
	CareerID int64   `json:"career_id"`
	UserID   UserRef `json:"user_id"`
}

// Client calls the API at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient gets one with
// DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.APIResponse, error) {
	return c.post(ctx, PathRegister, req)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.APIResponse, error) {
	return c.post(ctx, PathLogin, req)
}

func (c *Client) Google(ctx context.Context, req GoogleAuthRequest) (*model.APIResponse, error) {
	return c.post(ctx, PathGoogle, req)
}

func (c *Client) LinkedIn(ctx context.Context, req LinkedInAuthRequest) (*model.APIResponse, error) {
	return c.post(ctx, PathLinkedIn, req)
}

// LinkedInExchange trades an authorization code for the LinkedIn profile.
// The backend holds the client secret.
func (c *Client) LinkedInExchange(ctx context.Context, code string) (*model.APIResponse, error) {
	return c.post(ctx, PathLinkedInExchange, LinkedInExchangeRequest{Code: code})
}

// Logout asks the backend to end its side of the session.
func (c *Client) Logout(ctx context.Context) (*model.APIResponse, error) {
	return c.post(ctx, PathLogout, struct{}{})
}

// Assess scores the user against every career and returns the best matches.
func (c *Client) Assess(ctx context.Context, req AssessRequest) (*model.AssessmentResponse, error) {
	return postJSON[model.AssessmentResponse](ctx, c, PathAssess, req)
}

func (c *Client) LearningPath(ctx context.Context, req LearningPathRequest) (*model.LearningPathResponse, error) {
	return postJSON[model.LearningPathResponse](ctx, c, PathLearningPath, req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*model.APIResponse, error) {
	return postJSON[model.APIResponse](ctx, c, path, body)
}

// postJSON sends body to path and decodes a 2xx answer into T.
func postJSON[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("backend: encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("backend: building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Backend(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperror.Backend(path, fmt.Errorf("HTTP error! status: %d", resp.StatusCode))
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.Backend(path, fmt.Errorf("decoding response: %w", err))
	}
	return &out, nil
}
