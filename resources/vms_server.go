package resources

import (
	"context"

	"github.com/unity-tools/go-cupi-client/core"
)

// VmsServer is one voicemail server of the cluster.
type VmsServer struct {
	ObjectId           string `json:"ObjectId,omitempty"`
	ServerName         string `json:"ServerName,omitempty"`
	HostName           string `json:"HostName,omitempty"`
	IpAddress          string `json:"IpAddress,omitempty"`
	IpAddressV6        string `json:"IpAddressV6,omitempty"`
	ClusterMemberId    int    `json:"ClusterMemberId"`
	ServerState        int    `json:"ServerState"`
	ServerDisplayState string `json:"ServerDisplayState,omitempty"`
	IsDeleted          bool   `json:"IsDeleted"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

var vmsServerKind = &core.Kind[VmsServer]{
	Name:      "VmsServer",
	Path:      "vmsservers",
	Element:   "VmsServer",
	KeyPolicy: core.KeyOptional,
}

func NewVmsServer(server *core.Server, objectID string) (*VmsServer, error) {
	return NewVmsServerWithContext(context.Background(), server, objectID)
}

func NewVmsServerWithContext(ctx context.Context, server *core.Server, objectID string) (*VmsServer, error) {
	return core.Fetch[VmsServer](ctx, server, vmsServerKind, objectID)
}

func ListVmsServers(server *core.Server, filter core.Params) (*core.Result, []*VmsServer) {
	return ListVmsServersWithContext(context.Background(), server, filter)
}

func ListVmsServersWithContext(ctx context.Context, server *core.Server, filter core.Params) (*core.Result, []*VmsServer) {
	return core.List[VmsServer](ctx, server, vmsServerKind, filter)
}

func (v *VmsServer) ResourceBinding() *core.Binding {
	if v == nil {
		return nil
	}
	return &v.Binding
}

func (v *VmsServer) PrettyTable() string {
	return core.Table("VmsServer", v)
}
