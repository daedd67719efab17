// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/wfctl/pkg/defaults"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

const (
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "wfctl/1.0"

	// HeaderRequestID carries a per-request correlation id.
	HeaderRequestID = "X-Request-Id"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Option defines a configuration option for Client.
type Option func(*Client)

// Client talks to the platform REST API. It is safe for concurrent use.
type Client struct {
	baseURL            *url.URL
	accessToken        string
	userAgent          string
	tempDir            string
	insecureSkipVerify bool
	limiter            *rate.Limiter

	httpClient     *http.Client
	downloadClient *http.Client
	transport      *http.Transport
	customClient   bool
}

// WithAccessToken sets the bearer token sent in the Authorization header.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRateLimit bounds outgoing requests to perSecond with the given burst.
// A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.insecureSkipVerify = skip
	}
}

// WithTempDir sets the directory downloads are staged in. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(c *Client) {
		c.tempDir = dir
	}
}

// WithHTTPClient replaces the underlying client for both JSON calls and
// downloads. Transport options are ignored for custom clients.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
			c.downloadClient = hc
			c.customClient = true
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid API URL", err, map[string]any{"url": baseURL})
	}

	t := newDefaultTransport()
	c := &Client{
		baseURL:        u,
		userAgent:      DefaultUserAgent,
		limiter:        rate.NewLimiter(rate.Limit(defaults.APIRateLimit), defaults.APIRateLimitBurst),
		transport:      t,
		httpClient:     &http.Client{Timeout: defaults.HTTPClientTimeout, Transport: t},
		downloadClient: &http.Client{Timeout: defaults.HTTPDownloadTimeout, Transport: t},
	}

	for _, opt := range options {
		opt(c)
	}

	if !c.customClient && c.insecureSkipVerify {
		c.transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in via --insecure
	}
	return c, nil
}

func newDefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,

		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// send issues a GET and returns the response for 2xx statuses only. The
// caller closes the body.
func (c *Client) send(ctx context.Context, hc *http.Client, op, path string, q url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, transportError(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	slog.Debug("api request", "operation", op, "path", path, "request_id", requestID)

	resp, err := hc.Do(req)
	if err != nil {
		apiRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, transportError(op, err)
	}
	apiRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(op, resp)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, out any) error {
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.send(ctx, c.httpClient, op, path, q)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			op+": failed to decode response", err, map[string]any{"operation": op})
	}
	return nil
}

// download streams a response body into a new temporary file and returns its path.
func (c *Client) download(ctx context.Context, op, path string, q url.Values) (string, error) {
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.send(ctx, c.downloadClient, op, path, q)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	f, err := os.CreateTemp(c.tempDir, "wfctl-*.log")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create temporary file", err)
	}

	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", transportError(op, err)
	}

	apiDownloadBytes.Add(float64(n))
	slog.Debug("download complete", "operation", op, "bytes", n, "file", f.Name())
	return f.Name(), nil
}

// CodeForStatus maps an HTTP status to an error code.
func CodeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case http.StatusBadRequest:
		return apperrors.ErrCodeInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrCodeUnauthorized
	case http.StatusTooManyRequests:
		return apperrors.ErrCodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		return apperrors.ErrCodeUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return apperrors.ErrCodeTimeout
	default:
		return apperrors.ErrCodeInternal
	}
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(body))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Message != "" {
		msg = er.Message
	}
	if msg == "" {
		msg = resp.Status
	}

	return apperrors.NewWithContext(CodeForStatus(resp.StatusCode),
		fmt.Sprintf("%s: %s", op, msg),
		map[string]any{
			"operation": op,
			"status":    resp.StatusCode,
		})
}

func transportError(op string, err error) error {
	code := apperrors.ErrCodeInternal
	switch {
	case errors.Is(err, context.Canceled):
		code = apperrors.ErrCodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = apperrors.ErrCodeTimeout
	}
	return apperrors.WrapWithContext(code, op+" request failed", err, map[string]any{"operation": op})
}
