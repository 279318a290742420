package http

import (
	"io"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// WebhookHandler handles GitHub release webhooks
type WebhookHandler struct {
	releaseUC interfaces.ReleaseUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(releaseUC interfaces.ReleaseUseCase) *WebhookHandler {
	return &WebhookHandler{
		releaseUC: releaseUC,
	}
}

// Handle processes webhook requests. Every handled path answers with a
// short plain-text status; the two tagged failures are rendered by the
// recovery middleware. Event types other than "release" are
// acknowledged without any further processing.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		return goerr.New("Request is not from GitHub", goerr.T(types.ErrTagBadRequest))
	}
	if eventType != "release" {
		respondText(w, http.StatusOK, "Receieved")
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read request body", goerr.T(types.ErrTagInternal))
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return goerr.New("Request body is missing", goerr.T(types.ErrTagBadRequest))
	}

	// Decode failures stay untagged: they are outside the taxonomy and
	// take the default error render.
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		return goerr.Wrap(err, "failed to parse release payload")
	}

	event, ok := payload.(*github.ReleaseEvent)
	if !ok {
		return goerr.New("unexpected payload type for release event", goerr.T(types.ErrTagInternal))
	}

	msg, err := h.releaseUC.ProcessRelease(r.Context(), event)
	if err != nil {
		return err
	}

	respondText(w, http.StatusOK, msg)
	return nil
}
