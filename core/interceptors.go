package core

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
)

// Request/response tracing. Everything is logged at debug level and only while
// the server is in debug mode.

func (s *Server) tracing() bool {
	return s != nil && s.logger != nil && s.debug.Load()
}

func (s *Server) logRequest(requestID, method, url string, body []byte) {
	if !s.tracing() {
		return
	}
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
	}
	if b := compactBody(body); b != "" {
		fields = append(fields, zap.String("body", b))
	}
	s.logger.Debug("http request start", fields...)
}

func (s *Server) logResponse(requestID string, result *Result) {
	if !s.tracing() {
		return
	}
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status", result.StatusCode),
		zap.Bool("success", result.Success),
		zap.Duration("elapsed", result.Elapsed),
	}
	if result.ErrorText != "" {
		fields = append(fields, zap.String("error", result.ErrorText))
	}
	if b := compactBody([]byte(result.ResponseText)); b != "" {
		fields = append(fields, zap.String("body", b))
	}
	s.logger.Debug("http response", fields...)
}

func compactBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err == nil {
		return compact.String()
	}
	return string(trimmed)
}
