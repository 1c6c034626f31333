package core

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unity-tools/go-cupi-client/internal/logging"
)

// Server is a binding to one Unity Connection provisioning endpoint.
//
// Resource objects keep a non-owning reference to the Server they were built
// with; the caller must keep it alive for as long as those objects are used.
// Apart from the debug toggle a Server is immutable once constructed.
type Server struct {
	transport   Transport
	host        string
	port        uint64
	login       string
	password    string
	validated   bool
	version     *version.Version
	rawVersion  string
	productName string

	debug     atomic.Bool
	logger    *zap.Logger
	level     *zap.AtomicLevel
	baseLevel zapcore.Level
}

// ServerOption customizes a Server at construction time.
type ServerOption func(*Server)

// WithLogger makes the server trace requests to the given logger. Its level is
// owned by the caller and is not changed by SetDebugMode.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
			s.level = nil
		}
	}
}

// WithDebug starts the server with debug logging switched on.
func WithDebug(on bool) ServerOption {
	return func(s *Server) {
		s.SetDebugMode(on)
	}
}

func newServer(transport Transport, host, login, password string, opts ...ServerOption) *Server {
	s := &Server{
		transport: transport,
		login:     login,
		password:  password,
	}
	s.host, s.port = splitHostPort(host)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		logger, level := logging.New(logging.Options{})
		s.logger, s.level, s.baseLevel = logger, &level, level.Level()
		if s.debug.Load() {
			level.SetLevel(zapcore.DebugLevel)
		}
	}
	return s
}

// NewServerFromTransport builds an unvalidated handle that only carries the
// transport. No request is made; Validated reports false.
func NewServerFromTransport(transport Transport, opts ...ServerOption) (*Server, error) {
	if isNil(transport) {
		return nil, &ArgumentError{Op: "NewServer", Arg: "transport", Msg: "transport is nil"}
	}
	return newServer(transport, "", "", "", opts...), nil
}

// NewServer builds a handle and validates it with a round-trip to the server.
func NewServer(transport Transport, host, login, password string, opts ...ServerOption) (*Server, error) {
	return NewServerWithContext(context.Background(), transport, host, login, password, opts...)
}

// NewServerWithContext builds a handle and validates it with a round-trip to the
// server using ctx. Bad arguments yield *ArgumentError before any request; a
// failed round-trip yields *ValidationError.
func NewServerWithContext(ctx context.Context, transport Transport, host, login, password string, opts ...ServerOption) (*Server, error) {
	const op = "NewServer"
	if isNil(transport) {
		return nil, &ArgumentError{Op: op, Arg: "transport", Msg: "transport is nil"}
	}
	if host == "" {
		return nil, &ArgumentError{Op: op, Arg: "host", Msg: "host cannot be empty string"}
	}
	if login == "" || password == "" {
		return nil, &ArgumentError{Op: op, Arg: "login", Msg: "login and password must be provided"}
	}
	s := newServer(transport, host, login, password, opts...)
	if err := s.Validate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Connect validates config, builds an HTTPTransport from it and returns a
// validated Server.
func Connect(ctx context.Context, config *Config) (*Server, error) {
	if config == nil {
		return nil, &ArgumentError{Op: "Connect", Arg: "config", Msg: "config is nil"}
	}
	if err := config.Validate(DefaultValidators()...); err != nil {
		return nil, err
	}
	transport, err := NewHTTPTransport(config)
	if err != nil {
		return nil, err
	}
	opts := []ServerOption{WithLogger(config.Logger), WithDebug(config.Debug)}
	return NewServerWithContext(ctx, transport, config.address(), config.Login, config.Password, opts...)
}

// Validate performs the version round-trip and records the server version.
func (s *Server) Validate(ctx context.Context) error {
	result := s.Execute(ctx, &Request{Method: http.MethodGet, Path: versionPath})
	if !result.Success {
		return &ValidationError{Host: s.host, Err: result.fetchError("Version", "")}
	}
	records, _, err := decodeRecords(result.ResponseText, "")
	if err != nil {
		return &ValidationError{Host: s.host, Err: malformed(result, "Version", "", err)}
	}
	if len(records) == 0 {
		return &ValidationError{Host: s.host, Err: empty(result, "Version", "")}
	}
	var info struct {
		ProductName string `json:"ProductName"`
		Version     string `json:"Version"`
	}
	if err = records[0].Fill(&info); err != nil {
		return &ValidationError{Host: s.host, Err: malformed(result, "Version", "", err)}
	}
	if info.Version == "" {
		return &ValidationError{Host: s.host, Err: empty(result, "Version", "")}
	}
	parsed, err := parseServerVersion(info.Version)
	if err != nil {
		return &ValidationError{Host: s.host, Err: malformed(result, "Version", "", err)}
	}
	s.version = parsed
	s.rawVersion = info.Version
	s.productName = info.ProductName
	s.validated = true
	s.logger.Debug("server validated",
		zap.String("host", s.host),
		zap.String("product", info.ProductName),
		zap.String("version", info.Version))
	return nil
}

// Execute sends req through the server's transport.
func (s *Server) Execute(ctx context.Context, req *Request) *Result {
	if req == nil {
		return FailedResult("", "", "request is nil")
	}
	if s == nil {
		return FailedResult(req.Method, req.Path, "server handle is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result := s.transport.Execute(ctx, s, req)
	if result == nil {
		return FailedResult(req.Method, req.Path, "transport returned no result")
	}
	return result
}

func (s *Server) Host() string {
	return s.host
}

func (s *Server) Port() uint64 {
	return s.port
}

// Credentials returns the login and password used by transports.
func (s *Server) Credentials() (login, password string) {
	return s.login, s.password
}

func (s *Server) Validated() bool {
	return s.validated
}

// Version returns the core (x.y.z) server version, nil before validation.
func (s *Server) Version() *version.Version {
	return s.version
}

// VersionString returns the version exactly as reported by the server.
func (s *Server) VersionString() string {
	return s.rawVersion
}

func (s *Server) ProductName() string {
	return s.productName
}

// VersionAtLeast reports whether the validated server version is >= min.
func (s *Server) VersionAtLeast(min string) (bool, error) {
	if s.version == nil {
		return false, &ArgumentError{Op: "VersionAtLeast", Arg: "server", Msg: "server is not validated"}
	}
	minVersion, err := version.NewVersion(min)
	if err != nil {
		return false, &ArgumentError{Op: "VersionAtLeast", Arg: "min", Msg: err.Error()}
	}
	return s.version.GreaterThanOrEqual(minVersion), nil
}

// SetDebugMode toggles request/response tracing.
func (s *Server) SetDebugMode(on bool) {
	s.debug.Store(on)
	if s.level == nil {
		return
	}
	if on {
		s.level.SetLevel(zapcore.DebugLevel)
	} else {
		s.level.SetLevel(s.baseLevel)
	}
}

func (s *Server) DebugMode() bool {
	return s.debug.Load()
}

func (s *Server) Logger() *zap.Logger {
	return s.logger
}

// DeepCopy makes clones share the handle instead of duplicating it.
func (s *Server) DeepCopy() interface{} {
	return s
}

func (s *Server) String() string {
	if s.version != nil {
		return s.host + " [" + s.rawVersion + "]"
	}
	return s.host
}

func splitHostPort(address string) (string, uint64) {
	if address == "" {
		return "", 0
	}
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return strings.Trim(address, "[]"), defaultPort
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}

// parseServerVersion keeps the core x.y.z segments of versions such as
// "12.5.1.11900-57".
func parseServerVersion(raw string) (*version.Version, error) {
	truncated, _ := sanitizeVersion(raw)
	v, err := version.NewVersion(truncated)
	if err != nil {
		return nil, err
	}
	return v.Core(), nil
}

// sanitizeVersion truncates all segments of the server version above core (x.y.z).
// Pre-release identifiers after the third segment are kept; build suffixes
// attached to the fourth segment are dropped with it.
func sanitizeVersion(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	mainAndPrerelease := raw
	buildMetadata := ""
	if plusIndex := strings.Index(raw, "+"); plusIndex != -1 {
		mainAndPrerelease = raw[:plusIndex]
		buildMetadata = raw[plusIndex:]
	}

	mainVersion := mainAndPrerelease
	prerelease := ""
	if dashIndex := strings.Index(mainAndPrerelease, "-"); dashIndex != -1 {
		mainVersion = mainAndPrerelease[:dashIndex]
		prerelease = mainAndPrerelease[dashIndex:]
	}

	segments := strings.Split(mainVersion, ".")
	truncated := len(segments) > 3 || buildMetadata != ""
	if len(segments) <= 3 {
		return mainVersion + prerelease, truncated
	}
	// "12.5.1.11900-57": the dash belongs to the build segment, not a pre-release.
	return strings.Join(segments[:3], "."), truncated
}
