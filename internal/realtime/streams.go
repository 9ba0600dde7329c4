package realtime

import "strings"

// StreamResources carries change events for every resource.
const StreamResources = "resources"

// Resource events.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Connection events answer control frames. Subscription acknowledgements
// list the affected streams under meta.streams.
const (
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventPong         = "pong"
	EventError        = "error"
)

// ResourceStream names the per-resource stream, e.g. resources.posts.
func ResourceStream(resource string) string {
	return StreamResources + "." + normalizeStream(resource)
}

// ResourceFromStream extracts the resource name from a per-resource stream.
func ResourceFromStream(stream string) (string, bool) {
	name, ok := strings.CutPrefix(normalizeStream(stream), StreamResources+".")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
