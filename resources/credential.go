package resources

import (
	"context"
	"net/url"

	"github.com/unity-tools/go-cupi-client/core"
)

// CredentialType values used by the server.
const (
	CredentialTypePassword = 3
	CredentialTypePin      = 4
)

// Credential is the password or PIN credential of a user. It is addressed by
// the owning user's object id.
type Credential struct {
	UserObjectId             string `json:"UserObjectId,omitempty"`
	CredentialType           int    `json:"CredentialType,omitempty"`
	IsPrimary                bool   `json:"IsPrimary"`
	CantChange               bool   `json:"CantChange"`
	DoesntExpire             bool   `json:"DoesntExpire"`
	CredMustChange           bool   `json:"CredMustChange"`
	Locked                   bool   `json:"Locked"`
	HackCount                int    `json:"HackCount"`
	TimeChanged              string `json:"TimeChanged,omitempty"`
	TimeLastHacked           string `json:"TimeLastHacked,omitempty"`
	CredentialPolicyObjectId string `json:"CredentialPolicyObjectId,omitempty"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

func credentialKind(name, leaf string) *core.Kind[Credential] {
	return &core.Kind[Credential]{
		Name:      name,
		Path:      "users",
		IDField:   "UserObjectId",
		KeyPolicy: core.KeyRequired,
		ItemPath: func(userID string) string {
			return "users/" + url.PathEscape(userID) + "/credential/" + leaf
		},
	}
}

var (
	passwordKind = credentialKind("PasswordCredential", "password")
	pinKind      = credentialKind("PinCredential", "pin")
)

// NewCredential fetches the web application password of the user.
func NewCredential(server *core.Server, userObjectID string) (*Credential, error) {
	return NewCredentialWithContext(context.Background(), server, userObjectID)
}

func NewCredentialWithContext(ctx context.Context, server *core.Server, userObjectID string) (*Credential, error) {
	return core.Fetch[Credential](ctx, server, passwordKind, userObjectID)
}

// NewPinCredential fetches the voicemail PIN of the user.
func NewPinCredential(server *core.Server, userObjectID string) (*Credential, error) {
	return NewPinCredentialWithContext(context.Background(), server, userObjectID)
}

func NewPinCredentialWithContext(ctx context.Context, server *core.Server, userObjectID string) (*Credential, error) {
	return core.Fetch[Credential](ctx, server, pinKind, userObjectID)
}

func (c *Credential) ResourceBinding() *core.Binding {
	if c == nil {
		return nil
	}
	return &c.Binding
}

func (c *Credential) kind() *core.Kind[Credential] {
	if c.CredentialType == CredentialTypePin {
		return pinKind
	}
	return passwordKind
}

// IsPin reports whether this is a PIN credential.
func (c *Credential) IsPin() (bool, error) {
	if err := c.ResourceBinding().Check(); err != nil {
		return false, err
	}
	return c.CredentialType == CredentialTypePin, nil
}

// MustChange reports whether the user has to change the credential at next login.
func (c *Credential) MustChange() (bool, error) {
	if err := c.ResourceBinding().Check(); err != nil {
		return false, err
	}
	return c.CredMustChange, nil
}

// IsLocked reports whether the credential is locked.
func (c *Credential) IsLocked() (bool, error) {
	if err := c.ResourceBinding().Check(); err != nil {
		return false, err
	}
	return c.Locked, nil
}

// SetSecret replaces the password or PIN.
func (c *Credential) SetSecret(ctx context.Context, secret string) *core.Result {
	if c == nil {
		return core.Update[Credential](ctx, c, passwordKind, nil)
	}
	return core.Update[Credential](ctx, c, c.kind(), core.Params{"Credentials": secret})
}

// Unlock clears the lock and hack count.
func (c *Credential) Unlock(ctx context.Context) *core.Result {
	if c == nil {
		return core.Update[Credential](ctx, c, passwordKind, nil)
	}
	return core.Update[Credential](ctx, c, c.kind(), core.Params{"Locked": false, "HackCount": 0})
}

func (c *Credential) PrettyTable() string {
	return core.Table("Credential", c)
}
