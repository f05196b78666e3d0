package events

import (
	"context"
	"log/slog"
)

const (
	EventTypeUserCreated           = "user.created"
	EventTypeUserStatusChanged     = "user.status_changed"
	EventTypeUserDeleted           = "user.deleted"
	EventTypeUserRoleAssigned      = "user_role.assigned"
	EventTypeUserRoleUpdated       = "user_role.updated"
	EventTypeUserRoleRemoved       = "user_role.removed"
	EventTypeRolePermissionGranted = "role_permission.granted"
	EventTypeRolePermissionUpdated = "role_permission.updated"
	EventTypeRolePermissionRevoked = "role_permission.revoked"
)

// IdentityEventTypes lists every event type emitted by the identity services.
var IdentityEventTypes = []string{
	EventTypeUserCreated,
	EventTypeUserStatusChanged,
	EventTypeUserDeleted,
	EventTypeUserRoleAssigned,
	EventTypeUserRoleUpdated,
	EventTypeUserRoleRemoved,
	EventTypeRolePermissionGranted,
	EventTypeRolePermissionUpdated,
	EventTypeRolePermissionRevoked,
}

type UserEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func NewUserCreatedEvent(userID, username, email string) *UserEvent {
	return &UserEvent{
		BaseEvent: newBaseEvent(EventTypeUserCreated, map[string]interface{}{
			"user_id":  userID,
			"username": username,
			"email":    email,
		}),
		UserID:   userID,
		Username: username,
	}
}

func NewUserDeletedEvent(userID, username string) *UserEvent {
	return &UserEvent{
		BaseEvent: newBaseEvent(EventTypeUserDeleted, map[string]interface{}{
			"user_id":  userID,
			"username": username,
		}),
		UserID:   userID,
		Username: username,
	}
}

type UserStatusChangedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func NewUserStatusChangedEvent(userID, username, from, to string) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseEvent: newBaseEvent(EventTypeUserStatusChanged, map[string]interface{}{
			"user_id":  userID,
			"username": username,
			"from":     from,
			"to":       to,
		}),
		UserID:   userID,
		Username: username,
		From:     from,
		To:       to,
	}
}

// RelationEvent covers both join relations. Previous is set on updates only.
type RelationEvent struct {
	BaseEvent
	SubjectID string `json:"subject_id"`
	ObjectID  string `json:"object_id"`
	Previous  string `json:"previous,omitempty"`
}

func NewUserRoleEvent(eventType, userID, roleID, previousRoleID string) *RelationEvent {
	data := map[string]interface{}{
		"user_id": userID,
		"role_id": roleID,
	}
	if previousRoleID != "" {
		data["previous_role_id"] = previousRoleID
	}
	return &RelationEvent{
		BaseEvent: newBaseEvent(eventType, data),
		SubjectID: userID,
		ObjectID:  roleID,
		Previous:  previousRoleID,
	}
}

func NewRolePermissionEvent(eventType, roleID, permissionID, previousPermissionID string) *RelationEvent {
	data := map[string]interface{}{
		"role_id":       roleID,
		"permission_id": permissionID,
	}
	if previousPermissionID != "" {
		data["previous_permission_id"] = previousPermissionID
	}
	return &RelationEvent{
		BaseEvent: newBaseEvent(eventType, data),
		SubjectID: roleID,
		ObjectID:  permissionID,
		Previous:  previousPermissionID,
	}
}

// Emit publishes through pub if one is configured. Publishing failures are
// logged and never fail the domain operation that already succeeded.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, event Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}

// RegisterAuditLog subscribes a handler that writes every identity event to
// logger under the "audit" message.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
		}
		if data, ok := event.Payload().(map[string]interface{}); ok {
			for k, v := range data {
				attrs = append(attrs, k, v)
			}
		}
		logger.InfoContext(ctx, "audit", attrs...)
		return nil
	}
	for _, eventType := range IdentityEventTypes {
		bus.Subscribe(eventType, handler)
	}
}
