package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// Notifier defines the outbound operations against the messaging
// platform. Implementations must be safe for concurrent use once
// initialized.
type Notifier interface {
	// PostText sends a plain text message to the configured channel
	PostText(ctx context.Context, text string) error

	// PostNotification sends a single rich message with one attachment
	PostNotification(ctx context.Context, n *model.Notification) error
}
