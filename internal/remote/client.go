// Package remote talks to a template registry server.
//
// Endpoints:
//
//	POST /user/register   account.UserAccountData -> RegisterResponse
//	POST /user/login      {username, password}    -> AuthResponse
//	GET  /templates                                -> []template.Template
//	GET  /templates/{name}                         -> template.Template
//	POST /templates       template.Template (Authorization: Bearer <key>)
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YangQing-Lin/templo-cli/internal/account"
	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

const (
	// DefaultTimeout applies when no timeout is configured.
	DefaultTimeout = 30 * time.Second
	// DigestHeader carries the blake3 digest of a published file tree.
	DigestHeader = "X-Templo-Digest"

	maxResponseSize = 64 << 20
	maxErrorSize    = 4 << 10
)

// Client 远程模板服务
type Client interface {
	Register(ctx context.Context, data account.UserAccountData) (*RegisterResponse, error)
	Authenticate(ctx context.Context, username, password string) (*AuthResponse, error)
	ListTemplates(ctx context.Context) ([]template.Template, error)
	FetchTemplate(ctx context.Context, name string) (*template.Template, error)
	PublishTemplate(ctx context.Context, key string, t *template.Template) error
}

// RegisterResponse is the reply to POST /user/register. User holds the
// JSON-encoded account key when Registered is true.
type RegisterResponse struct {
	Registered bool   `json:"registered"`
	User       string `json:"user"`
	Message    string `json:"message"`
}

// AuthResponse is the reply to POST /user/login.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user"`
	Message       string `json:"message"`
}

// AccountKey decodes the account carried in a successful registration.
func (r *RegisterResponse) AccountKey() (*account.UserAccountKey, error) {
	return decodeUser(r.User)
}

// AccountKey decodes the account carried in a successful login.
func (r *AuthResponse) AccountKey() (*account.UserAccountKey, error) {
	return decodeUser(r.User)
}

func decodeUser(raw string) (*account.UserAccountKey, error) {
	var key account.UserAccountKey
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "server returned an unreadable account")
	}
	if key.Username == "" || key.Key == "" {
		return nil, apperr.Internal("server returned an incomplete account")
	}
	return &key, nil
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HTTPClient implements Client over HTTP+JSON.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient returns a client for the server at baseURL. A zero timeout
// uses DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.InvalidInput("invalid remote url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (c *HTTPClient) Register(ctx context.Context, data account.UserAccountData) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", "", data, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", "", authRequest{username, password}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]template.Template, error) {
	var list []template.Template
	if err := c.do(ctx, http.MethodGet, "/templates", "", nil, &list); err != nil {
		return nil, fmt.Errorf("list remote templates: %w", err)
	}
	for i := range list {
		list[i].Type = template.TypeRemote
	}
	return list, nil
}

func (c *HTTPClient) FetchTemplate(ctx context.Context, name string) (*template.Template, error) {
	var t template.Template
	if err := c.do(ctx, http.MethodGet, "/templates/"+url.PathEscape(name), "", nil, &t); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if t.Name == "" {
		return nil, apperr.Internal("fetch %s: server returned a template without a name", name)
	}
	for key := range t.FileTree {
		if err := template.ValidateKey(key); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
	}
	if t.FileTree == nil {
		t.FileTree = map[string][]byte{}
	}
	t.Type = template.TypeRemote
	return &t, nil
}

func (c *HTTPClient) PublishTemplate(ctx context.Context, key string, t *template.Template) error {
	if key == "" {
		return apperr.InvalidInput("publishing requires a logged in account")
	}
	if t == nil {
		return apperr.InvalidInput("no template to publish")
	}
	if err := c.do(ctx, http.MethodPost, "/templates", key, t, nil); err != nil {
		return fmt.Errorf("publish %s: %w", t.Name, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint, key string, body, out any) error {
	var reader io.Reader
	var digest string
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "encode request")
		}
		reader = bytes.NewReader(data)
		if t, ok := body.(*template.Template); ok {
			digest = t.Digest()
		}
	}

	target := c.baseURL.JoinPath(endpoint)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if digest != "" {
		req.Header.Set(DigestHeader, digest)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "cannot reach %s", c.baseURL.Host)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote request",
		slog.String("method", method),
		slog.String("url", target.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read response")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "decode response")
	}
	return nil
}

// statusError maps an HTTP failure to an error kind, preferring the
// server's "message" field over the raw body.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSize))
	msg := strings.TrimSpace(string(data))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	kind := apperr.ErrInternal
	switch resp.StatusCode {
	case http.StatusNotFound:
		kind = apperr.ErrNotFound
	case http.StatusConflict:
		kind = apperr.ErrAlreadyExists
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		kind = apperr.ErrInvalidInput
	}
	return apperr.New(kind, "HTTP %d: %s", resp.StatusCode, msg)
}
