package service

// Notifier receives record-change events for fan-out to live subscribers.
// The websocket hub implements it; services tolerate a nil notifier.
type Notifier interface {
	Publish(event string, data interface{})
}

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventRoleCreated = "role.created"
	EventRoleUpdated = "role.updated"
	EventRoleDeleted = "role.deleted"
)

func publish(n Notifier, event string, data interface{}) {
	if n != nil {
		n.Publish(event, data)
	}
}
