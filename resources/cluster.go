// Package resources maps Unity Connection provisioning objects onto Go
// structs. Every type is driven by a core.Kind table; construction, listing
// and mutation logic lives in core.
package resources

import (
	"context"

	"github.com/unity-tools/go-cupi-client/core"
)

// ClusterServer is one member of a Unity Connection cluster.
type ClusterServer struct {
	Key                 string `json:"Key,omitempty"`
	HostName            string `json:"HostName,omitempty"`
	Ipv4Address         string `json:"Ipv4Address,omitempty"`
	Ipv6Address         string `json:"Ipv6Address,omitempty"`
	MacAddress          string `json:"MacAddress,omitempty"`
	DatabaseReplication int    `json:"DatabaseReplication,omitempty"`
	ServerState         int    `json:"ServerState,omitempty"`
	ServerStateText     string `json:"ServerStateText,omitempty"`
	PubSub              string `json:"PubSub,omitempty"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

// Cluster is the cluster membership of the server, fetched as one object.
type Cluster struct {
	Total   int             `json:"@total" msgpack:"total"`
	Servers []ClusterServer `json:"Server" msgpack:"servers"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

var clusterKind = &core.Kind[Cluster]{
	Name:      "Cluster",
	Path:      "cluster",
	Element:   "Server",
	KeyPolicy: core.KeyNone,
}

var clusterServerKind = &core.Kind[ClusterServer]{
	Name:      "ClusterServer",
	Path:      "cluster",
	Element:   "Server",
	IDField:   "Key",
	KeyPolicy: core.KeyNone,
}

func NewCluster(server *core.Server) (*Cluster, error) {
	return NewClusterWithContext(context.Background(), server)
}

func NewClusterWithContext(ctx context.Context, server *core.Server) (*Cluster, error) {
	return core.Fetch[Cluster](ctx, server, clusterKind, "")
}

// ListClusterServers lists the cluster members as individual objects.
func ListClusterServers(server *core.Server, filter core.Params) (*core.Result, []*ClusterServer) {
	return ListClusterServersWithContext(context.Background(), server, filter)
}

func ListClusterServersWithContext(ctx context.Context, server *core.Server, filter core.Params) (*core.Result, []*ClusterServer) {
	return core.List[ClusterServer](ctx, server, clusterServerKind, filter)
}

func (s *ClusterServer) ResourceBinding() *core.Binding {
	if s == nil {
		return nil
	}
	return &s.Binding
}

func (c *Cluster) ResourceBinding() *core.Binding {
	if c == nil {
		return nil
	}
	return &c.Binding
}

// ServerList returns the cluster members in server order.
func (c *Cluster) ServerList() ([]ClusterServer, error) {
	if err := c.ResourceBinding().Check(); err != nil {
		return nil, err
	}
	return c.Servers, nil
}

// HostNames returns the host name of every member.
func (c *Cluster) HostNames() ([]string, error) {
	servers, err := c.ServerList()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		names = append(names, s.HostName)
	}
	return names, nil
}

func (c *Cluster) PrettyTable() string {
	return core.Table("Cluster", c)
}
