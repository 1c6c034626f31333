package resources

import (
	"context"

	"github.com/unity-tools/go-cupi-client/core"
)

// DefaultHtmlTemplate is the body given to new notification templates.
const DefaultHtmlTemplate = "<html><head></head><body></body></html>"

// NotificationTemplate is an HTML notification template.
type NotificationTemplate struct {
	NotificationTemplateId string `json:"NotificationTemplateId,omitempty"`
	DisplayName            string `json:"DisplayName,omitempty"`
	HtmlTemplate           string `json:"HtmlTemplate,omitempty"`
	IsPredefined           bool   `json:"IsPredefined"`

	Binding core.Binding `json:"-" msgpack:"-"`
}

var notificationTemplateKind = &core.Kind[NotificationTemplate]{
	Name:      "NotificationTemplate",
	Path:      "notificationtemplates",
	Element:   "NotificationTemplate",
	IDField:   "NotificationTemplateId",
	KeyPolicy: core.KeyOptional,
	Defaults: func(t *NotificationTemplate) {
		t.HtmlTemplate = DefaultHtmlTemplate
	},
}

// NewNotificationTemplate fetches the template with the given id. An empty id
// returns an unsaved template without contacting the server.
func NewNotificationTemplate(server *core.Server, id string) (*NotificationTemplate, error) {
	return NewNotificationTemplateWithContext(context.Background(), server, id)
}

func NewNotificationTemplateWithContext(ctx context.Context, server *core.Server, id string) (*NotificationTemplate, error) {
	return core.Fetch[NotificationTemplate](ctx, server, notificationTemplateKind, id)
}

func ListNotificationTemplates(server *core.Server, filter core.Params) (*core.Result, []*NotificationTemplate) {
	return ListNotificationTemplatesWithContext(context.Background(), server, filter)
}

func ListNotificationTemplatesWithContext(ctx context.Context, server *core.Server, filter core.Params) (*core.Result, []*NotificationTemplate) {
	return core.List[NotificationTemplate](ctx, server, notificationTemplateKind, filter)
}

func (t *NotificationTemplate) ResourceBinding() *core.Binding {
	if t == nil {
		return nil
	}
	return &t.Binding
}

// Save creates an unsaved template on the server.
func (t *NotificationTemplate) Save(ctx context.Context) *core.Result {
	return core.Save[NotificationTemplate](ctx, t, notificationTemplateKind)
}

func (t *NotificationTemplate) Update(ctx context.Context, changes core.Params) *core.Result {
	return core.Update[NotificationTemplate](ctx, t, notificationTemplateKind, changes)
}

func (t *NotificationTemplate) Delete(ctx context.Context) *core.Result {
	return core.Delete[NotificationTemplate](ctx, t, notificationTemplateKind)
}

func (t *NotificationTemplate) PrettyTable() string {
	return core.Table("NotificationTemplate", t)
}
