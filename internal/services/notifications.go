package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	pathNotifications      = "/admin/notifications"
	pathNotificationUpdate = "/notifications"
)

// notificationIDKeys are the fields a create answer may carry the id under,
// in lookup order
var notificationIDKeys = []string{"id", "_id", "notificationId", "ID", "uuid"}

// Notifications manages push notifications
type Notifications struct {
	client *executor.Client
	log    zerolog.Logger
}

// CreateAndSendResult is the created draft plus the dispatch answer
type CreateAndSendResult struct {
	Notification types.Notification `json:"notification" yaml:"notification"`
	SendResult   types.SendResult   `json:"sendResult" yaml:"sendResult"`
}

// List returns one page of notifications
func (n *Notifications) List(ctx context.Context, q PageQuery) (*types.Page[types.Notification], error) {
	return fetchPage[types.Notification](ctx, n.client, pathNotifications, q)
}

// Get returns one notification
func (n *Notifications) Get(ctx context.Context, id string) (*types.Notification, error) {
	var notification types.Notification
	if err := n.client.Get(ctx, idPath(pathNotifications, id), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Create stores a notification draft
func (n *Notifications) Create(ctx context.Context, req types.NotificationRequest) (*types.Notification, error) {
	var notification types.Notification
	if err := n.client.Post(ctx, pathNotifications, req, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Send dispatches a stored notification
func (n *Notifications) Send(ctx context.Context, id string) (*types.SendResult, error) {
	var result types.SendResult
	if err := n.client.Post(ctx, idPath(pathNotifications, id)+"/send", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateAndSend stores a draft and dispatches it in one go
func (n *Notifications) CreateAndSend(ctx context.Context, req types.NotificationRequest) (*CreateAndSendResult, error) {
	var raw json.RawMessage
	if err := n.client.Post(ctx, pathNotifications, req, &raw); err != nil {
		return nil, err
	}

	id, err := notificationID(raw)
	if err != nil {
		return nil, n.client.Classifier().Surface(err)
	}
	n.log.Debug().Str("notification_id", id).Msg("Draft created, sending")

	var result CreateAndSendResult
	// a numeric id does not fit Notification.ID; the other fields still decode
	if err := json.Unmarshal(raw, &result.Notification); err != nil {
		n.log.Debug().Err(err).Str("notification_id", id).Msg("Draft decoded partially")
	}
	result.Notification.ID = id

	sent, err := n.Send(ctx, id)
	if err != nil {
		return nil, err
	}
	result.SendResult = *sent
	return &result, nil
}

// Update edits a draft. Only drafts can be updated.
func (n *Notifications) Update(ctx context.Context, id string, req types.NotificationRequest) (*types.Notification, error) {
	var notification types.Notification
	if err := n.client.Put(ctx, idPath(pathNotificationUpdate, id), req, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Delete removes a notification
func (n *Notifications) Delete(ctx context.Context, id string) error {
	return n.client.Delete(ctx, idPath(pathNotifications, id), nil)
}

// notificationID extracts the id of a created notification
func notificationID(raw json.RawMessage) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", apierr.Wrap(apierr.KindUnexpectedShape, "Unexpected response format", err)
	}

	for _, key := range notificationIDKeys {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			if v != 0 {
				return fmt.Sprintf("%.0f", v), nil
			}
		}
	}

	return "", apierr.New(apierr.KindUnexpectedShape, "No notification ID received from create API")
}
