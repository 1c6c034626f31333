package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bndr/gotabulate"
	"github.com/fatih/color"

	"github.com/unity-tools/go-cupi-client/core"
	"github.com/unity-tools/go-cupi-client/resources"
)

type command func(ctx context.Context, server *core.Server, params commandParams, args []string) error

var commands = map[string]command{
	"version":    versionCmd,
	"cluster":    clusterCmd,
	"timezones":  timeZonesCmd,
	"templates":  templatesCmd,
	"vmsservers": vmsServersCmd,
	"users":      usersCmd,
	"user":       userCmd,
}

func versionCmd(_ context.Context, server *core.Server, _ commandParams, _ []string) error {
	fmt.Println(grid([]string{"product", "version", "client"}, [][]any{
		{server.ProductName(), server.VersionString(), core.ClientVersion()},
	}))
	return nil
}

func clusterCmd(ctx context.Context, server *core.Server, _ commandParams, _ []string) error {
	cluster, err := resources.NewClusterWithContext(ctx, server)
	if err != nil {
		return err
	}
	members, err := cluster.ServerList()
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, []any{m.HostName, m.Ipv4Address, m.ServerStateText, m.DatabaseReplication})
	}
	fmt.Println(grid([]string{"host", "ipv4", "state", "replication"}, rows))
	return nil
}

func timeZonesCmd(ctx context.Context, server *core.Server, _ commandParams, _ []string) error {
	result, zones := resources.ListTimeZonesWithContext(ctx, server, nil)
	if err := result.Err(); err != nil {
		return err
	}
	rows := make([][]any, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []any{z.TimeZoneId, z.DisplayName, z.Bias})
	}
	fmt.Println(grid([]string{"id", "name", "bias"}, rows))
	return nil
}

func templatesCmd(ctx context.Context, server *core.Server, _ commandParams, _ []string) error {
	result, templates := resources.ListNotificationTemplatesWithContext(ctx, server, nil)
	if err := result.Err(); err != nil {
		return err
	}
	rows := make([][]any, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []any{t.NotificationTemplateId, t.DisplayName, t.IsPredefined})
	}
	fmt.Println(grid([]string{"id", "name", "predefined"}, rows))
	return nil
}

func vmsServersCmd(ctx context.Context, server *core.Server, _ commandParams, _ []string) error {
	result, servers := resources.ListVmsServersWithContext(ctx, server, nil)
	if err := result.Err(); err != nil {
		return err
	}
	rows := make([][]any, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, []any{s.ObjectId, s.ServerName, s.IpAddress, s.ServerDisplayState})
	}
	fmt.Println(grid([]string{"id", "name", "ip", "state"}, rows))
	return nil
}

func usersCmd(ctx context.Context, server *core.Server, params commandParams, args []string) error {
	var filter core.Params
	if len(args) > 0 {
		filter = core.Query("alias", core.OpStartsWith, args[0])
	}
	it := resources.UserIterator(ctx, server, filter, params.pageSize)
	users, err := it.All()
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u.Alias, u.DisplayName, u.DtmfAccessId, u.ObjectId})
	}
	fmt.Println(grid([]string{"alias", "name", "extension", "id"}, rows))
	status("%d of %d users", len(users), it.Count())
	return nil
}

func userCmd(ctx context.Context, server *core.Server, _ commandParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("user: expected exactly one alias")
	}
	user, err := resources.NewUserByAlias(ctx, server, args[0])
	if err != nil {
		return err
	}
	fmt.Println(user.PrettyTable())
	for _, fetch := range []func(context.Context) (*resources.Credential, error){user.Password, user.Pin} {
		cred, err := fetch(ctx)
		if err != nil {
			color.New(color.FgYellow).Fprintf(os.Stderr, "credential unavailable: %v\n", err)
			continue
		}
		fmt.Println(cred.PrettyTable())
	}
	return nil
}

func grid(headers []string, rows [][]any) string {
	if len(rows) == 0 {
		return "<empty>"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render("grid")
}
