package core

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Config represents the configuration required to connect to a Unity Connection server.
type Config struct {
	Host           string         // The hostname or IP address of the server.
	Port           uint64         // The HTTPS port of the provisioning interface.
	Login          string         // Administrator login.
	Password       string         // Administrator password.
	SslVerify      bool           // Whether to verify SSL certificates.
	RespectProxy   bool           // Whether to respect proxy environment variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
	Timeout        *time.Duration // HTTP client timeout. If nil, a default is applied by validators.
	MaxConnections int            // Maximum number of concurrent HTTP connections.
	UserAgent      string         // Optional custom User-Agent header. If empty, a default is applied.
	Debug          bool           // Start the server handle with debug logging enabled.
	// Logger receives request/response traces. When nil a logger is built from CUPI_LOG.
	Logger *zap.Logger

	// BeforeRequestFn is an optional function hook executed before a request is sent.
	// Any error returned aborts the request and is reported through the Result.
	BeforeRequestFn func(ctx context.Context, r *http.Request) error

	// AfterRequestFn is an optional function hook executed after the Result is built.
	// It may inspect or replace the Result; an error turns it into a failure.
	AfterRequestFn func(ctx context.Context, result *Result) (*Result, error)
}

// ConfigFunc defines a function that can modify or validate a Config.
type ConfigFunc func(*Config) error

// Validate applies the given validators to the config and returns the first error.
func (config *Config) Validate(validators ...ConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			return err
		}
	}
	return nil
}

// DefaultValidators is the validator chain applied by Connect.
func DefaultValidators() []ConfigFunc {
	return []ConfigFunc{
		WithHost,
		WithAuth,
		WithPort(defaultPort),
		WithTimeout(30 * time.Second),
		WithMaxConnections(10),
		WithUserAgent,
	}
}

// WithTimeout returns a ConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) ConfigFunc {
	return func(config *Config) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a ConfigFunc that sets the maximum number of connections
// if not explicitly provided.
func WithMaxConnections(maxConnections int) ConfigFunc {
	return func(config *Config) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithHost validates that the Host field is not empty.
func WithHost(config *Config) error {
	if config.Host == "" {
		return &ArgumentError{Op: "Config", Arg: "Host", Msg: "host cannot be empty string"}
	}
	return nil
}

// WithPort returns a ConfigFunc that sets a default port if none is provided.
func WithPort(defaultPort uint64) ConfigFunc {
	return func(config *Config) error {
		if config.Port == 0 {
			config.Port = defaultPort
		}
		return nil
	}
}

// WithAuth validates that both login and password are provided.
func WithAuth(config *Config) error {
	if config.Login == "" || config.Password == "" {
		return &ArgumentError{Op: "Config", Arg: "Login", Msg: "login and password must be provided"}
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *Config) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("go-cupi-client-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// address returns host:port as used by NewServer.
func (config *Config) address() string {
	if config.Port == 0 {
		return config.Host
	}
	return fmt.Sprintf("%s:%d", config.Host, config.Port)
}
