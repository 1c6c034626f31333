package resources

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/unity-tools/go-cupi-client/core"
)

// ErrNotFound is returned by lookups into an already fetched object.
var ErrNotFound = errors.New("not found")

type TimeZone struct {
	TimeZoneId   int    `json:"TimeZoneId"`
	DisplayName  string `json:"DisplayName,omitempty"`
	Bias         int    `json:"Bias"`
	LanguageCode int    `json:"LanguageCode,omitempty"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

// TimeZones is the table of time zones known to the server, fetched as one object.
type TimeZones struct {
	Total int        `json:"@total" msgpack:"total"`
	Zones []TimeZone `json:"TimeZone" msgpack:"zones"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

var timeZonesKind = &core.Kind[TimeZones]{
	Name:      "TimeZones",
	Path:      "timezones",
	Element:   "TimeZone",
	KeyPolicy: core.KeyNone,
}

var timeZoneKind = &core.Kind[TimeZone]{
	Name:      "TimeZone",
	Path:      "timezones",
	Element:   "TimeZone",
	IDField:   "TimeZoneId",
	KeyPolicy: core.KeyNone,
}

func NewTimeZones(server *core.Server) (*TimeZones, error) {
	return NewTimeZonesWithContext(context.Background(), server)
}

func NewTimeZonesWithContext(ctx context.Context, server *core.Server) (*TimeZones, error) {
	return core.Fetch[TimeZones](ctx, server, timeZonesKind, "")
}

// ListTimeZones lists time zones as individual objects.
func ListTimeZones(server *core.Server, filter core.Params) (*core.Result, []*TimeZone) {
	return ListTimeZonesWithContext(context.Background(), server, filter)
}

func ListTimeZonesWithContext(ctx context.Context, server *core.Server, filter core.Params) (*core.Result, []*TimeZone) {
	return core.List[TimeZone](ctx, server, timeZoneKind, filter)
}

func (z *TimeZone) ResourceBinding() *core.Binding {
	if z == nil {
		return nil
	}
	return &z.Binding
}

func (z *TimeZones) ResourceBinding() *core.Binding {
	if z == nil {
		return nil
	}
	return &z.Binding
}

// TimeZoneList returns the time zones in server order.
func (z *TimeZones) TimeZoneList() ([]TimeZone, error) {
	if err := z.ResourceBinding().Check(); err != nil {
		return nil, err
	}
	return z.Zones, nil
}

// Lookup finds a time zone by its numeric id.
func (z *TimeZones) Lookup(id string) (TimeZone, error) {
	zones, err := z.TimeZoneList()
	if err != nil {
		return TimeZone{}, err
	}
	want, err := strconv.Atoi(id)
	if err != nil {
		return TimeZone{}, &core.ArgumentError{Op: "Lookup", Arg: "id", Msg: err.Error()}
	}
	for _, zone := range zones {
		if zone.TimeZoneId == want {
			return zone, nil
		}
	}
	return TimeZone{}, fmt.Errorf("time zone %s: %w", id, ErrNotFound)
}

func (z *TimeZones) PrettyTable() string {
	return core.Table("TimeZones", z)
}
