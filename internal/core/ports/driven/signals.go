package driven

import "github.com/custodia-labs/outline-cli/internal/core/domain"

// Unsubscribe removes a handler registered with Signals.
// Calling it more than once is a no-op.
type Unsubscribe func()

// Signals delivers engine-side notifications to the panel.
// Handlers run one at a time in delivery order.
type Signals interface {
	// OnDocumentLoaded fires when a document finishes loading.
	OnDocumentLoaded(fn func()) Unsubscribe

	// OnForceUpdateOutlines asks the panel to rebuild outlines and bookmarks.
	OnForceUpdateOutlines(fn func()) Unsubscribe

	// OnOutlinesChanged fires when the outline tree changed outside the panel.
	OnOutlinesChanged(fn func()) Unsubscribe

	// OnDestinationPicked fires when the capture tool picks a location.
	OnDestinationPicked(fn func(domain.DestinationPick)) Unsubscribe
}
