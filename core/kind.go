package core

import (
	"net/url"
	"strings"
)

// KeyPolicy decides what an empty key means when constructing a resource.
type KeyPolicy int

const (
	// KeyRequired rejects an empty key with *ArgumentError.
	KeyRequired KeyPolicy = iota
	// KeyOptional returns an unsaved template populated with defaults.
	KeyOptional
	// KeyNone fetches the collection endpoint as a single object.
	KeyNone
)

func (p KeyPolicy) String() string {
	switch p {
	case KeyRequired:
		return "required"
	case KeyOptional:
		return "optional"
	case KeyNone:
		return "none"
	default:
		return "unknown"
	}
}

// Kind is the per-type table driving Fetch, List and mutations.
type Kind[T any] struct {
	// Name is used in errors and logs.
	Name string
	// Path is the collection path relative to /vmrest/.
	Path string
	// Element names the list envelope key holding the items.
	Element string
	// IDField is the record field holding the object identifier, ObjectId by default.
	IDField   string
	KeyPolicy KeyPolicy
	// Defaults is applied before any server data.
	Defaults func(*T)
	// ItemPath maps a key to the item endpoint, Path/<key> by default.
	ItemPath func(key string) string
}

func (k *Kind[T]) idField() string {
	if k.IDField == "" {
		return defaultID
	}
	return k.IDField
}

func (k *Kind[T]) itemPath(key string) string {
	if k.ItemPath != nil {
		return k.ItemPath(key)
	}
	return strings.TrimRight(k.Path, "/") + "/" + url.PathEscape(key)
}

func (k *Kind[T]) newObject() *T {
	obj := new(T)
	if k.Defaults != nil {
		k.Defaults(obj)
	}
	return obj
}

// Binding ties a resource object to the server it came from.
//
// Resource structs hold it as an exported field tagged `json:"-"`; cloning
// copies the value, so copies keep pointing at the same Server.
type Binding struct {
	server   *Server
	objectID string
	loaded   bool
}

// Server returns the bound server handle, nil for unbound objects.
func (b Binding) Server() *Server {
	return b.server
}

// ObjectID returns the server-side identifier recorded at fetch time.
func (b Binding) ObjectID() string {
	return b.objectID
}

// Loaded reports whether the object was populated from the server.
func (b Binding) Loaded() bool {
	return b.loaded
}

// DeepCopy keeps the server pointer shared when a resource is cloned.
func (b Binding) DeepCopy() interface{} {
	return b
}

// Check returns ErrNotLoaded unless the binding was populated from the server.
func (b *Binding) Check() error {
	if b == nil || !b.loaded {
		return ErrNotLoaded
	}
	return nil
}

func (b *Binding) bind(server *Server, objectID string, loaded bool) {
	b.server = server
	b.objectID = objectID
	b.loaded = loaded
}

// Loaded reports whether obj is non-nil and populated from the server.
func Loaded[PT Bindable](obj PT) bool {
	if any(obj) == nil {
		return false
	}
	b := obj.ResourceBinding()
	return b != nil && b.loaded
}
