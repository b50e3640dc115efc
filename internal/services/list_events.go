package services

// ChangeKind names what happened to the list set
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeEvicted ChangeKind = "evicted"
	// ChangeActive carries the new active id, or none when the selection was cleared
	ChangeActive ChangeKind = "active_changed"
)

// ChangeEvent describes one committed change
type ChangeEvent struct {
	Kind   ChangeKind `json:"kind"`
	ListID string     `json:"listId,omitempty"`
}

// ChangeNotifier receives the events of each committed mutation, in order
type ChangeNotifier interface {
	NotifyListChanges(events []ChangeEvent)
}

type nopNotifier struct{}

func (nopNotifier) NotifyListChanges([]ChangeEvent) {}

// HubNotifier publishes list changes to websocket subscribers of TopicLists
type HubNotifier struct {
	hub *WebSocketHub
}

// NewHubNotifier creates a notifier broadcasting through hub
func NewHubNotifier(hub *WebSocketHub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyListChanges(events []ChangeEvent) {
	n.hub.BroadcastToTopic(TopicLists, WSMessage{
		Type:    WSTypeListsChanged,
		Payload: ListsChangedPayload{Events: events},
	})
}

// ListsChangedPayload is the payload of a lists_changed message
type ListsChangedPayload struct {
	Events []ChangeEvent `json:"events"`
}
