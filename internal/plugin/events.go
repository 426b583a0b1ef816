// events.go defines the event types for plugin state notifications.
//
// Separated from plugin.go to isolate the event system. Events enable
// interested parties (the container manager, audit tooling) to react to
// install state changes without polling the store.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Listeners cannot block or veto an install/uninstall - they observe after
// the state has changed. Listeners are invoked synchronously, in
// subscription order, on the goroutine that changed the state.

package plugin

// EventType identifies the kind of plugin event.
type EventType string

const (
	EventInstalled   EventType = "plugin:installed"
	EventUninstalled EventType = "plugin:uninstalled"
)

// Event is fired after a plugin's install state changes.
type Event struct {
	Type   EventType
	Plugin Plugin
}

// Listener is implemented by parties that want plugin state notifications.
type Listener interface {
	HandlePluginEvent(e Event)
}
