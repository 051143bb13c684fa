package genai

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"musespark-backend/pkg/logger"
)

// DebugTransport logs outgoing requests with secrets redacted.
type DebugTransport struct {
	base         http.RoundTripper
	debugEnabled bool
}

func NewDebugTransport(base http.RoundTripper, debugEnabled bool) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{
		base:         base,
		debugEnabled: debugEnabled,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.debugEnabled && req.Method == http.MethodPost {
		t.logRequest(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil && t.debugEnabled {
		logger.Errorf("[LLM Debug] Request failed: %v", err)
	}

	return resp, err
}

func (t *DebugTransport) logRequest(req *http.Request) {
	headers := make([]string, 0, len(req.Header))
	for name, values := range req.Header {
		if isSensitiveHeader(name) {
			headers = append(headers, name+": [REDACTED]")
		} else {
			headers = append(headers, name+": "+strings.Join(values, ", "))
		}
	}

	fields := map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": headers,
	}

	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Errorf("[LLM Debug] Failed to read request body: %v", err)
			return
		}
		// restore the body for the real request
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		fields["body_size"] = len(bodyBytes)
		fields["body"] = RedactJSON(string(bodyBytes))
	}

	logger.WithFields(fields).Debug("[LLM Debug] request")
}

var sensitiveFieldPattern = regexp.MustCompile(`(?i)"(api_key|apikey|password|secret|token)"\s*:\s*"[^"]*"`)

// base64 image data keeps only its prefix
var inlineImagePattern = regexp.MustCompile(`data:([a-zA-Z0-9/+.-]+);base64,[A-Za-z0-9+/=]+`)

// RedactJSON hides secret values and inline image payloads in a request body.
func RedactJSON(body string) string {
	body = sensitiveFieldPattern.ReplaceAllString(body, `"$1": "[REDACTED]"`)
	return inlineImagePattern.ReplaceAllString(body, "data:$1;base64,[...]")
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key", "x-auth-token", "cookie":
		return true
	}
	return false
}
