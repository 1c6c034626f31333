/*
Package cupi_client provides a typed interface to the Cisco Unity Connection
provisioning REST interface (served under /vmrest/).

A Server handle is created with Connect (HTTPS transport configured through
Config) or NewServer (any Transport). Construction validates the handle with a
version round-trip. Resource objects in the resources package are fetched,
listed and mutated through that handle:

	server, err := cupi_client.Connect(ctx, &cupi_client.Config{
		Host:     "cuc.example.com",
		Login:    "admin",
		Password: "secret",
	})
	if err != nil {
		return err
	}
	user, err := resources.NewUserByAlias(ctx, server, "jdoe")

Single-object constructors return errors (*core.ArgumentError before any
request, *core.RemoteFetchError afterwards). List functions never return an
error; they report failure through the returned Result. Package clone takes
independent snapshots of resource objects that keep pointing at the same
Server.
*/
package cupi_client
