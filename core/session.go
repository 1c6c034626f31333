package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPTransport executes requests against the /vmrest/ interface over HTTPS
// using basic authentication.
type HTTPTransport struct {
	config *Config
	client *http.Client
}

// NewHTTPTransport builds a transport from a validated Config.
func NewHTTPTransport(config *Config) (*HTTPTransport, error) {
	if config == nil {
		return nil, &ArgumentError{Op: "NewHTTPTransport", Arg: "config", Msg: "config is nil"}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	if config.RespectProxy {
		transport.Proxy = http.ProxyFromEnvironment
	} else {
		transport.Proxy = nil
	}
	client := &http.Client{Transport: transport}
	if config.Timeout != nil {
		client.Timeout = *config.Timeout
		transport.IdleConnTimeout = *config.Timeout
	}
	return &HTTPTransport{config: config, client: client}, nil
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, server *Server, req *Request) *Result {
	if t == nil || t.client == nil {
		return FailedResult(req.Method, req.Path, "http transport is not initialized")
	}
	start := time.Now()
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	fullURL := buildUrl(server, req.Path, req.Query)
	result := newResult(method, fullURL)

	var requestData io.Reader = bytes.NewReader(nil)
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		if bodyBytes, err = json.Marshal(req.Body); err != nil {
			return result.fail("failed to encode request body: %v", err)
		}
		requestData = bytes.NewReader(bodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, requestData)
	if err != nil {
		return result.fail("failed to build request: %v", err)
	}
	requestID := uuid.NewString()
	for key, values := range t.consolidateHeaders(req) {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set(HeaderRequestID, requestID)
	login, password := server.Credentials()
	httpReq.SetBasicAuth(login, password)

	if t.config.BeforeRequestFn != nil {
		if err = t.config.BeforeRequestFn(ctx, httpReq); err != nil {
			return result.fail("before request hook: %v", err)
		}
	}
	server.logRequest(requestID, method, fullURL, bodyBytes)

	response, err := t.client.Do(httpReq)
	if err != nil {
		result.Elapsed = time.Since(start)
		result.fail("failed to perform %s request to %s: %v", method, fullURL, err)
		server.logResponse(requestID, result)
		return t.afterRequest(ctx, result)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	result.StatusCode = response.StatusCode
	result.Elapsed = time.Since(start)
	if err != nil {
		result.fail("failed to read response body: %v", err)
	} else {
		result.ResponseText = string(body)
		result.Success = isSuccessStatus(response.StatusCode)
		if !result.Success {
			result.ErrorText = errorText(response, body)
		}
	}
	server.logResponse(requestID, result)
	return t.afterRequest(ctx, result)
}

func (t *HTTPTransport) afterRequest(ctx context.Context, result *Result) *Result {
	if t.config.AfterRequestFn == nil {
		return result
	}
	replaced, err := t.config.AfterRequestFn(ctx, result)
	if err != nil {
		return result.fail("after request hook: %v", err)
	}
	if replaced == nil {
		return result
	}
	return replaced
}

func (t *HTTPTransport) consolidateHeaders(req *Request) http.Header {
	finalHeaders := make(http.Header)

	// Apply custom headers first
	for key, values := range req.Headers {
		for _, value := range values {
			finalHeaders.Add(key, value)
		}
	}

	// Set default headers only if not already provided
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderContentType) == "" {
		finalHeaders.Set(HeaderContentType, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderUserAgent) == "" && t.config.UserAgent != "" {
		finalHeaders.Set(HeaderUserAgent, t.config.UserAgent)
	}
	if !req.UseCache && finalHeaders.Get(HeaderCacheControl) == "" {
		finalHeaders.Set(HeaderCacheControl, "no-cache")
	}
	return finalHeaders
}

// buildUrl joins the server address, the /vmrest/ root, path and query.
// Absolute paths (as returned in URI fields) are used unchanged.
func buildUrl(server *Server, path string, query Params) string {
	var full string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		full = path
	} else {
		trimmed := strings.TrimLeft(path, "/")
		trimmed = strings.TrimPrefix(trimmed, apiRoot+"/")
		u := url.URL{
			Scheme: "https",
			Host:   fmt.Sprintf("%s:%d", server.Host(), server.Port()),
			Path:   "/" + apiRoot + "/" + trimmed,
		}
		full = u.String()
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + query.ToQuery()
	}
	return full
}

// errorText picks the most useful failure description from a non-2xx response.
func errorText(response *http.Response, body []byte) string {
	var payload struct {
		ErrorDetails struct {
			Errors struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"ErrorDetails"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.ErrorDetails.Errors.Message != "" {
		if payload.ErrorDetails.Errors.Code != "" {
			return payload.ErrorDetails.Errors.Code + ": " + payload.ErrorDetails.Errors.Message
		}
		return payload.ErrorDetails.Errors.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return response.Status
}
