// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package upstream implements the HTTP client for the mining operations API.

The API is a conventional REST surface: resource collections live under
trailing-slash paths (projects/, tools/, access-logs/), authentication is a
JWT bearer token obtained from token/, and list responses arrive either as a
bare JSON array or wrapped in a paginated {"results": [...]} envelope
depending on the endpoint. This client absorbs those inconsistencies so the
rest of the gateway sees one shape.

Architecture:

  - Client: one instance per process, safe for concurrent use.
  - TokenProvider: a callable consulted on every authenticated request, so
    rotated tokens are picked up without rebuilding the client.
  - Normalization: list payloads are flattened to []json.RawMessage; see
    normalize.go.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/constants"
)

// Resource path segments of the mining API. All collection endpoints carry a
// trailing slash.
const (
	ResourceUsers             = "users"
	ResourceProjects          = "projects"
	ResourceProductionRecords = "production-records"
	ResourceAccessLogs        = "access-logs"
	ResourceGasRecords        = "gas-records"
	ResourceWorkFronts        = "work-fronts"
	ResourceInventoryItems    = "inventory-items"
	ResourceTools             = "tools"
	ResourceReports           = "reports"
)

// TokenProvider returns the bearer token to use for one request. It is
// consulted at call time, never cached, so a silent refresh that landed a
// moment ago is already in effect for the next proxied request.
type TokenProvider func(ctx context.Context) (string, error)

// TokenPair is the response of the token-issuing endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Client talks to the mining operations API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	logger     *slog.Logger
}

// NewClient constructs a [Client]. baseURL is the API root, e.g.
// "https://mining.example/api". tokens may be nil for a client that only
// performs unauthenticated calls.
func NewClient(baseURL string, timeout time.Duration, tokens TokenProvider, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// # Authentication

// Login exchanges credentials for a token pair at token/. A 401 from the
// upstream maps to an authentication failure, anything else to an upstream
// fault.
func (client *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	payload := map[string]string{"username": username, "password": password}

	response, err := client.do(ctx, http.MethodPost, "token/", nil, payload, false)
	if err != nil {
		return TokenPair{}, err
	}
	defer drain(response)

	if response.StatusCode == http.StatusUnauthorized {
		return TokenPair{}, apperr.Unauthenticated("Invalid username or password")
	}
	if err := expectSuccess(response); err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := json.NewDecoder(response.Body).Decode(&pair); err != nil {
		return TokenPair{}, apperr.Upstream(fmt.Errorf("decode token response: %w", err))
	}
	return pair, nil
}

// ExchangeRefresh trades a refresh token for a fresh access token at
// token/refresh/. It satisfies the session store's exchanger interface.
func (client *Client) ExchangeRefresh(ctx context.Context, refreshToken string) (string, error) {
	payload := map[string]string{"refresh": refreshToken}

	response, err := client.do(ctx, http.MethodPost, "token/refresh/", nil, payload, false)
	if err != nil {
		return "", err
	}
	defer drain(response)

	if err := expectSuccess(response); err != nil {
		return "", err
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return "", apperr.Upstream(fmt.Errorf("decode refresh response: %w", err))
	}
	return body.Access, nil
}

// Register creates a user account at register/.
func (client *Client) Register(ctx context.Context, payload any) (json.RawMessage, error) {
	return client.writeRequest(ctx, http.MethodPost, "register/", payload)
}

// # Resource Operations

// List fetches a resource collection and flattens it to raw records,
// regardless of whether the endpoint paginates.
func (client *Client) List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error) {
	response, err := client.do(ctx, http.MethodGet, resource+"/", query, nil, true)
	if err != nil {
		return nil, err
	}
	defer drain(response)

	if err := expectSuccess(response); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, apperr.Upstream(fmt.Errorf("read list body: %w", err))
	}
	return normalizeList(raw), nil
}

// Create posts a new record to the resource collection.
func (client *Client) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	return client.writeRequest(ctx, http.MethodPost, resource+"/", payload)
}

// Update replaces the record identified by id.
func (client *Client) Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error) {
	return client.writeRequest(ctx, http.MethodPut, resource+"/"+strconv.FormatInt(id, 10)+"/", payload)
}

// Delete removes the record identified by id. A 404 maps to
// [apperr.NotFound] so a double delete reads as such.
func (client *Client) Delete(ctx context.Context, resource string, id int64) error {
	response, err := client.do(ctx, http.MethodDelete, resource+"/"+strconv.FormatInt(id, 10)+"/", nil, nil, true)
	if err != nil {
		return err
	}
	defer drain(response)

	if response.StatusCode == http.StatusNotFound {
		return apperr.NotFound(resource)
	}
	return expectSuccess(response)
}

// GenerateReport asks the API to produce a new report document.
func (client *Client) GenerateReport(ctx context.Context, payload any) (json.RawMessage, error) {
	return client.writeRequest(ctx, http.MethodPost, "reports/generate/", payload)
}

// DownloadReport streams a generated report file. The caller owns the body
// and must close it.
func (client *Client) DownloadReport(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	path := "reports/" + strconv.FormatInt(id, 10) + "/download/"
	response, err := client.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, "", err
	}

	if response.StatusCode == http.StatusNotFound {
		drain(response)
		return nil, "", apperr.NotFound("report")
	}
	if err := expectSuccess(response); err != nil {
		drain(response)
		return nil, "", err
	}

	return response.Body, response.Header.Get("Content-Type"), nil
}

// Ping checks that the API host answers at all. Any HTTP response counts as
// reachable, including a 401; only transport failures are errors.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/", nil)
	if err != nil {
		return err
	}
	response, err := client.httpClient.Do(request)
	if err != nil {
		return apperr.Upstream(err)
	}
	drain(response)
	return nil
}

// # Request Plumbing

func (client *Client) writeRequest(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	response, err := client.do(ctx, method, path, nil, payload, true)
	if err != nil {
		return nil, err
	}
	defer drain(response)

	if response.StatusCode == http.StatusNotFound {
		return nil, apperr.NotFound(strings.SplitN(path, "/", 2)[0])
	}
	if err := expectSuccess(response); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, apperr.Upstream(fmt.Errorf("read response body: %w", err))
	}
	return json.RawMessage(raw), nil
}

func (client *Client) do(ctx context.Context, method, path string, query url.Values, payload any, authed bool) (*http.Response, error) {
	endpoint := client.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("encode request payload: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build request: %w", err))
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	if authed {
		if client.tokens == nil {
			return nil, apperr.Unauthenticated("No session token available")
		}
		token, err := client.tokens(ctx)
		if err != nil {
			return nil, apperr.Unauthenticated("No session token available")
		}
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Warn("upstream_request_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, apperr.Upstream(err)
	}
	return response, nil
}

// expectSuccess converts a non-2xx response into an error. Validation
// rejections (400) keep the upstream's field details when they decode.
func expectSuccess(response *http.Response) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(response.Body, 512))

	switch response.StatusCode {
	case http.StatusBadRequest:
		return apperr.ValidationError("The mining operations API rejected the request", fieldErrors(snippet)...)
	case http.StatusUnauthorized:
		return apperr.SessionExpired("Your session is no longer valid upstream")
	case http.StatusForbidden:
		return apperr.Forbidden("The mining operations API denied access")
	default:
		return apperr.Upstream(fmt.Errorf("upstream returned %d: %s", response.StatusCode, string(snippet)))
	}
}

// fieldErrors converts an upstream rejection body of the shape
// {"field": ["message", ...]} into field errors. Unrecognized shapes yield
// none; the generic validation message stands alone.
func fieldErrors(body []byte) []apperr.FieldError {
	var decoded map[string][]string
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}

	fields := make([]string, 0, len(decoded))
	for field := range decoded {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errors := make([]apperr.FieldError, 0, len(fields))
	for _, field := range fields {
		errors = append(errors, apperr.FieldError{
			Field:   field,
			Message: strings.Join(decoded[field], " "),
		})
	}
	return errors
}

// drain discards and closes the response body so the connection can be reused.
func drain(response *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))
	_ = response.Body.Close()
}
