// Package eventbus provides a typed publish/subscribe event bus that carries
// document engine signals to the outline panel.
package eventbus

import "github.com/custodia-labs/outline-cli/internal/core/domain"

// Event names a signal type.
type Event string

// Keep list sorted A-Z.
const (
	EventDestinationPicked   Event = "outline.destination-picked"
	EventDocumentLoaded      Event = "document.loaded"
	EventOutlinesChanged     Event = "outlines.changed"
	EventOutlinesForceUpdate Event = "outlines.force-update"
)

// DestinationPickedPayload is emitted when the capture tool picks a location.
type DestinationPickedPayload struct {
	Pick domain.DestinationPick
}

// DocumentLoadedPayload is emitted when a document finishes loading.
type DocumentLoadedPayload struct {
	DocumentID string
}

// OutlinesChangedPayload is emitted when outlines change outside the panel.
type OutlinesChangedPayload struct {
	DocumentID string
}

// OutlinesForceUpdatePayload asks listeners to rebuild outlines and bookmarks.
type OutlinesForceUpdatePayload struct {
	Reason string
}
