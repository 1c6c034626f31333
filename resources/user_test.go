package resources

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unity-tools/go-cupi-client/clone"
	"github.com/unity-tools/go-cupi-client/core"
)

const jdoe = `{"URI":"/vmrest/users/u-1","ObjectId":"u-1","Alias":"jdoe","FirstName":"John","LastName":"Doe",` +
	`"DisplayName":"John Doe","DtmfAccessId":"1001","TimeZone":"4","Language":"1033",` +
	`"IsVmEnrolled":"true","ListInDirectory":"false","IsTemplate":"false"}`

func TestUser_Fetch(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{"users/u-1": ok(jdoe)})

	user, err := NewUser(server, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls())
	assert.Equal(t, "jdoe", user.Alias)
	assert.Equal(t, 4, user.TimeZone)
	assert.Equal(t, 1033, user.Language)
	assert.True(t, user.IsVmEnrolled)
	assert.False(t, user.ListInDirectory)

	ext, err := user.PrimaryExtension()
	require.NoError(t, err)
	assert.Equal(t, "1001", ext)
	assert.Contains(t, user.PrettyTable(), "jdoe")
}

func TestUser_Template(t *testing.T) {
	server, r := newRoutes(t, nil)

	user, err := NewUser(server, "")
	require.NoError(t, err)
	assert.Zero(t, r.calls())
	assert.True(t, user.ListInDirectory)

	_, err = user.PrimaryExtension()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
	_, err = user.Password(context.Background())
	assert.ErrorIs(t, err, core.ErrNotLoaded)
	_, err = user.Pin(context.Background())
	assert.ErrorIs(t, err, core.ErrNotLoaded)
	assert.Zero(t, r.calls())
}

func TestUser_FetchFailures(t *testing.T) {
	server, _ := newRoutes(t, map[string]*core.Result{
		"users/empty":   ok(""),
		"users/garbage": ok("not json"),
	})

	_, err := NewUser(server, "missing")
	assert.Equal(t, http.StatusNotFound, core.StatusCode(err))

	_, err = NewUser(server, "empty")
	assert.True(t, core.IsEmptyResultErr(err))

	user, err := NewUser(server, "garbage")
	assert.Nil(t, user)
	assert.True(t, core.IsRemoteFetchErr(err))
}

func TestNewUserByAlias(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{
		"users": ok(`{"@total":"1","User":` + jdoe + `}`),
	})

	user, err := NewUserByAlias(context.Background(), server, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.Binding.ObjectID())
	assert.Equal(t, "(alias is jdoe)", r.last().Query[core.ParamQuery])

	_, err = NewUserByAlias(context.Background(), server, "")
	assert.True(t, core.IsArgumentErr(err))
	assert.Equal(t, 1, r.calls())
}

func TestListUsers(t *testing.T) {
	server, _ := newRoutes(t, map[string]*core.Result{
		"users": ok(`{"@total":"2","User":[{"ObjectId":"u-1","Alias":"jdoe"},{"ObjectId":"u-2","Alias":"asmith"}]}`),
	})

	result, users := ListUsers(server, core.Query("alias", core.OpStartsWith, "a"))
	require.True(t, result.Success)
	require.Len(t, users, 2)
	assert.Equal(t, "jdoe", users[0].Alias)
	assert.Equal(t, "asmith", users[1].Alias)
	assert.True(t, core.Loaded(users[1]))
}

func TestUserIterator(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{
		"users": ok(`{"@total":"1","User":{"ObjectId":"u-1","Alias":"jdoe"}}`),
	})

	users, err := UserIterator(context.Background(), server, nil, 0).All()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 100, r.last().Query[core.ParamRowsPerPage])
}

func TestAddUser(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{
		"POST users": {Success: true, StatusCode: http.StatusCreated, ResponseText: "/vmrest/users/u-9", Total: -1},
	})

	result, id := AddUser(context.Background(), server, "", &User{Alias: "new", DtmfAccessId: "2002"})
	require.True(t, result.Success)
	assert.Equal(t, "u-9", id)

	req := r.last()
	assert.Equal(t, DefaultUserTemplate, req.Query["templateAlias"])
	body := req.Body.(core.Params)
	assert.Equal(t, "new", body["Alias"])
	assert.Equal(t, "2002", body["DtmfAccessId"])
	assert.NotContains(t, body, "ObjectId")

	result, id = AddUser(context.Background(), server, "tmpl", nil)
	assert.False(t, result.Success)
	assert.Empty(t, id)
	assert.Equal(t, 1, r.calls())
}

func TestUser_UpdateDelete(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{
		"GET users/u-1":    ok(jdoe),
		"PUT users/u-1":    {Success: true, StatusCode: http.StatusNoContent, Total: -1},
		"DELETE users/u-1": {Success: true, StatusCode: http.StatusNoContent, Total: -1},
	})
	user, err := NewUser(server, "u-1")
	require.NoError(t, err)

	result := user.Update(context.Background(), core.Params{"Department": "Sales"})
	require.True(t, result.Success)
	assert.Equal(t, "Sales", user.Department)
	assert.Equal(t, core.Params{"Department": "Sales"}, r.last().Body)

	result = user.Delete(context.Background())
	require.True(t, result.Success)
	assert.False(t, core.Loaded(user))
}

func TestUser_Credentials(t *testing.T) {
	server, r := newRoutes(t, map[string]*core.Result{
		"users/u-1": ok(jdoe),
		"users/u-1/credential/password": ok(`{"UserObjectId":"u-1","CredentialType":"3","CredMustChange":"true",` +
			`"Locked":"false","HackCount":"0","DoesntExpire":"false"}`),
		"users/u-1/credential/pin": ok(`{"CredentialType":"4","Locked":"true","HackCount":"3"}`),
	})
	user, err := NewUser(server, "u-1")
	require.NoError(t, err)

	password, err := user.Password(context.Background())
	require.NoError(t, err)
	isPin, err := password.IsPin()
	require.NoError(t, err)
	assert.False(t, isPin)
	mustChange, err := password.MustChange()
	require.NoError(t, err)
	assert.True(t, mustChange)

	pin, err := user.Pin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", pin.Binding.ObjectID())
	isPin, err = pin.IsPin()
	require.NoError(t, err)
	assert.True(t, isPin)
	locked, err := pin.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 3, pin.HackCount)

	r.table["PUT users/u-1/credential/pin"] = &core.Result{Success: true, StatusCode: http.StatusNoContent, Total: -1}
	result := pin.Unlock(context.Background())
	require.True(t, result.Success, result.ErrorText)
	assert.False(t, pin.Locked)
	assert.Zero(t, pin.HackCount)

	result = pin.SetSecret(context.Background(), "13579")
	require.True(t, result.Success)
	req := r.last()
	assert.Equal(t, "users/u-1/credential/pin", req.Path)
	assert.Equal(t, core.Params{"Credentials": "13579"}, req.Body)
}

func TestCredential_Errors(t *testing.T) {
	server, r := newRoutes(t, nil)

	_, err := NewCredential(server, "")
	assert.True(t, core.IsArgumentErr(err))
	_, err = NewPinCredential(server, "")
	assert.True(t, core.IsArgumentErr(err))
	assert.Zero(t, r.calls())

	_, err = NewCredential(server, "u-404")
	assert.Equal(t, http.StatusNotFound, core.StatusCode(err))

	var missing *Credential
	_, err = missing.IsLocked()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
	assert.False(t, missing.SetSecret(context.Background(), "x").Success)
	assert.False(t, missing.Unlock(context.Background()).Success)
}

func TestUser_Clone(t *testing.T) {
	server, _ := newRoutes(t, map[string]*core.Result{"users/u-1": ok(jdoe)})
	user, err := NewUser(server, "u-1")
	require.NoError(t, err)

	copied, err := clone.Of(user)
	require.NoError(t, err)
	copied.Alias = "changed"
	assert.Equal(t, "jdoe", user.Alias)
	assert.Same(t, server, copied.Binding.Server())
	assert.True(t, core.Loaded(copied))

	detached, err := clone.Serialized(user)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", detached.Alias)
	assert.False(t, core.Loaded(detached))
}
