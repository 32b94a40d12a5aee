// Package api is the HTTP client for the stock statistics and strategy API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

const DefaultBaseURL = "http://localhost:5000"

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Lenient repairs malformed JSON bodies before giving up on them.
	Lenient bool
}

type Client struct {
	Config Config
	HTTP   *http.Client
	Logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		Config: cfg,
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Logger: logger,
	}
}

type requestIDKey struct{}

// WithRequestID makes requests issued with ctx carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// envelope is the status body the API sends with errors and mutations.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e envelope) text() string {
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	if e.Details != "" {
		msg = strings.TrimSpace(msg + ": " + e.Details)
	}
	return msg
}

// do issues one request. A non-nil in is sent as JSON; a non-nil out receives
// the decoded 2xx body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	url := c.Config.BaseURL + path
	reqID := requestID(ctx)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &NetworkError{Op: op, Method: method, URL: url, RequestID: reqID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.Logger.With(zap.String("op", op), zap.String("method", method), zap.String("url", url), zap.String("request_id", reqID))
	log.Debug("api request")
	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		log.Warn("api request failed", zap.Error(err))
		return &NetworkError{Op: op, Method: method, URL: url, RequestID: reqID, Err: err}
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Op: op, Method: method, URL: url, RequestID: reqID, StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode), Err: err}
	}
	log.Debug("api response", zap.Int("status", res.StatusCode), zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(data)))

	var env envelope
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &env)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Warn("api error response", zap.Int("status", res.StatusCode), zap.String("message", env.text()))
		return newStatusError(op, method, url, reqID, res.StatusCode, env.text())
	}
	// Some mutations report validation failures as a 2xx with an error field.
	if env.Error != "" {
		log.Warn("api error in success response", zap.Int("status", res.StatusCode), zap.String("message", env.text()))
		return newStatusError(op, method, url, reqID, res.StatusCode, env.text())
	}
	if out == nil {
		return nil
	}
	if err := c.decode(data, out); err != nil {
		log.Warn("api decode failed", zap.Error(err))
		return &NetworkError{Op: op, Method: method, URL: url, RequestID: reqID, StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) decode(data []byte, out any) error {
	err := json.Unmarshal(data, out)
	if err == nil || !c.Config.Lenient {
		return err
	}
	repaired, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return err
	}
	if err2 := json.Unmarshal([]byte(repaired), out); err2 != nil {
		return err
	}
	c.Logger.Warn("repaired malformed api response", zap.NamedError("decode_error", err))
	return nil
}
