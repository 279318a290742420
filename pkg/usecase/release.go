package usecase

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

// completeAssetCount is the number of build artifacts a finished
// release ships. Fewer means the asset upload has not finished yet;
// more is unexpected and treated the same way.
const completeAssetCount = 3

type releaseUseCase struct {
	notifier interfaces.Notifier
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(notifier interfaces.Notifier) interfaces.ReleaseUseCase {
	return &releaseUseCase{
		notifier: notifier,
	}
}

// ProcessRelease applies the action and asset-readiness filters and
// posts a notification for a qualifying release. Only the "edited"
// action notifies: a release is edited when CI attaches its build
// artifacts, which is the moment worth announcing. A failed post is
// logged and swallowed so the webhook acknowledgment is unaffected.
func (uc *releaseUseCase) ProcessRelease(ctx context.Context, event *github.ReleaseEvent) (string, error) {
	logger := ctxlog.From(ctx)

	if event == nil || event.Release == nil {
		return "", goerr.New("release payload has no release object")
	}

	if event.GetAction() != "edited" {
		return "No action needed", nil
	}

	if len(event.Release.Assets) != completeAssetCount {
		return "Assets are not complete", nil
	}

	notification := model.NewNotification(event.Release)

	if err := uc.notifier.PostNotification(ctx, notification); err != nil {
		logger.Error("failed to send release notification",
			"error", err,
			"release", notification.Title,
			"tag", event.Release.GetTagName(),
		)
	}

	return "Release processed", nil
}
