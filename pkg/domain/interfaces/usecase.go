package interfaces

import (
	"context"

	"github.com/google/go-github/v75/github"
)

// ReleaseUseCase defines release webhook processing. ProcessRelease
// returns the plain-text acknowledgment for the caller; outbound
// notification failures are not propagated through the error return.
type ReleaseUseCase interface {
	ProcessRelease(ctx context.Context, event *github.ReleaseEvent) (string, error)
}
