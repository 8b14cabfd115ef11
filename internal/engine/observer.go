package engine

import (
	"log"

	"github.com/imamik/museumctl/internal/graph"
)

// EventType represents the type of engine event.
type EventType string

const (
	// EventResourceApplying indicates a resource is being applied.
	EventResourceApplying EventType = "resource.applying"
	// EventResourceApplied indicates a resource was applied successfully.
	EventResourceApplied EventType = "resource.applied"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceFailed indicates an apply or delete step failed.
	EventResourceFailed EventType = "resource.failed"
)

// Event reports progress on a single resource.
type Event struct {
	Type     EventType
	Resource string
	Kind     graph.Kind
	// Detail names the concrete object the step produced, such as the
	// actual bucket name.
	Detail string
	Err    error
}

// Observer receives engine progress events.
type Observer interface {
	Event(event Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Event implements Observer.
func (f ObserverFunc) Event(event Event) { f(event) }

// ConsoleObserver logs events with the standard log package.
type ConsoleObserver struct{}

// Event implements Observer.
func (ConsoleObserver) Event(event Event) {
	switch event.Type {
	case EventResourceApplying:
		log.Printf("[%s] applying %s", event.Kind, event.Resource)
	case EventResourceApplied:
		if event.Detail != "" {
			log.Printf("[%s] applied %s (%s)", event.Kind, event.Resource, event.Detail)
		} else {
			log.Printf("[%s] applied %s", event.Kind, event.Resource)
		}
	case EventResourceDeleting:
		log.Printf("[%s] deleting %s", event.Kind, event.Resource)
	case EventResourceDeleted:
		log.Printf("[%s] deleted %s", event.Kind, event.Resource)
	case EventResourceFailed:
		log.Printf("[%s] %s failed: %v", event.Kind, event.Resource, event.Err)
	}
}
