package resources

import (
	"context"
	"net/http"

	"github.com/unity-tools/go-cupi-client/core"
)

// DefaultUserTemplate is the user template applied by AddUser when none is given.
const DefaultUserTemplate = "voicemailusertemplate"

// User is a Unity Connection user record (the UserBase object).
type User struct {
	ObjectId            string `json:"ObjectId,omitempty"`
	Alias               string `json:"Alias,omitempty"`
	FirstName           string `json:"FirstName,omitempty"`
	LastName            string `json:"LastName,omitempty"`
	DisplayName         string `json:"DisplayName,omitempty"`
	DtmfAccessId        string `json:"DtmfAccessId,omitempty"`
	SmtpAddress         string `json:"SmtpAddress,omitempty"`
	EmailAddress        string `json:"EmailAddress,omitempty"`
	Department          string `json:"Department,omitempty"`
	Title               string `json:"Title,omitempty"`
	EmployeeId          string `json:"EmployeeId,omitempty"`
	CallHandlerObjectId string `json:"CallHandlerObjectId,omitempty"`
	CosObjectId         string `json:"CosObjectId,omitempty"`
	LocationObjectId    string `json:"LocationObjectId,omitempty"`
	TimeZone            int    `json:"TimeZone,omitempty"`
	Language            int    `json:"Language,omitempty"`
	IsVmEnrolled        bool   `json:"IsVmEnrolled"`
	ListInDirectory     bool   `json:"ListInDirectory"`
	IsTemplate          bool   `json:"IsTemplate"`
	CreationTime        string `json:"CreationTime,omitempty"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

var userKind = &core.Kind[User]{
	Name:      "User",
	Path:      "users",
	Element:   "User",
	KeyPolicy: core.KeyOptional,
	Defaults: func(u *User) {
		u.ListInDirectory = true
	},
}

// NewUser fetches the user with the given object id. An empty id returns an
// unsaved user without contacting the server.
func NewUser(server *core.Server, objectID string) (*User, error) {
	return NewUserWithContext(context.Background(), server, objectID)
}

func NewUserWithContext(ctx context.Context, server *core.Server, objectID string) (*User, error) {
	return core.Fetch[User](ctx, server, userKind, objectID)
}

// NewUserByAlias looks a user up by its unique alias.
func NewUserByAlias(ctx context.Context, server *core.Server, alias string) (*User, error) {
	if alias == "" {
		return nil, &core.ArgumentError{Op: "NewUserByAlias", Arg: "alias", Msg: "alias cannot be empty string"}
	}
	return core.FetchBy[User](ctx, server, userKind, core.Query("alias", core.OpIs, alias))
}

func ListUsers(server *core.Server, filter core.Params) (*core.Result, []*User) {
	return ListUsersWithContext(context.Background(), server, filter)
}

func ListUsersWithContext(ctx context.Context, server *core.Server, filter core.Params) (*core.Result, []*User) {
	return core.List[User](ctx, server, userKind, filter)
}

// UserIterator pages through users matching filter.
func UserIterator(ctx context.Context, server *core.Server, filter core.Params, pageSize int) *core.Iterator[User, *User] {
	return core.NewIterator[User](ctx, server, userKind, filter, pageSize)
}

// AddUser creates a user from a user template and returns its object id.
func AddUser(ctx context.Context, server *core.Server, templateAlias string, user *User) (*core.Result, string) {
	if user == nil || user.Alias == "" {
		return core.FailedResult(http.MethodPost, userKind.Path, "user alias is required"), ""
	}
	if templateAlias == "" {
		templateAlias = DefaultUserTemplate
	}
	query := core.Params{"templateAlias": templateAlias}
	result := core.Create(ctx, server, userKind, query, core.NewParamsFromStruct(user))
	return result, core.CreatedID(result)
}

func (u *User) ResourceBinding() *core.Binding {
	if u == nil {
		return nil
	}
	return &u.Binding
}

// PrimaryExtension returns the user's primary extension.
func (u *User) PrimaryExtension() (string, error) {
	if err := u.ResourceBinding().Check(); err != nil {
		return "", err
	}
	return u.DtmfAccessId, nil
}

// Password fetches the user's web application password credential.
func (u *User) Password(ctx context.Context) (*Credential, error) {
	if err := u.ResourceBinding().Check(); err != nil {
		return nil, err
	}
	return NewCredentialWithContext(ctx, u.Binding.Server(), u.Binding.ObjectID())
}

// Pin fetches the user's voicemail PIN credential.
func (u *User) Pin(ctx context.Context) (*Credential, error) {
	if err := u.ResourceBinding().Check(); err != nil {
		return nil, err
	}
	return NewPinCredentialWithContext(ctx, u.Binding.Server(), u.Binding.ObjectID())
}

func (u *User) Update(ctx context.Context, changes core.Params) *core.Result {
	return core.Update[User](ctx, u, userKind, changes)
}

func (u *User) Delete(ctx context.Context) *core.Result {
	return core.Delete[User](ctx, u, userKind)
}

func (u *User) PrettyTable() string {
	return core.Table("User", u)
}
