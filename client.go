package cupi_client

import (
	"context"

	"github.com/unity-tools/go-cupi-client/core"
)

type (
	Config     = core.Config
	Server     = core.Server
	Transport  = core.Transport
	Request    = core.Request
	Result     = core.Result
	Params     = core.Params
	Record     = core.Record
	RecordSet  = core.RecordSet
	Renderable = core.Renderable
)

// Connect validates config, connects to the server and verifies the
// connection with a version round-trip.
func Connect(ctx context.Context, config *Config) (*Server, error) {
	return core.Connect(ctx, config)
}

// NewServer validates a server handle built on a custom transport.
func NewServer(transport Transport, host, login, password string) (*Server, error) {
	return core.NewServer(transport, host, login, password)
}
