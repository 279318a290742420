package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/go-github/v75/github"
)

// fallbackTitle is used when a release has no name
const fallbackTitle = "Unnamed Release"

// Notification is the rich message posted to the channel for a
// qualifying release. Built fresh per request and discarded after the
// send attempt.
type Notification struct {
	Title  string
	Color  int
	Fields []NotificationField
}

// NotificationField holds one asset: the asset filename and a
// mrkdwn-formatted download link.
type NotificationField struct {
	Name  string
	Value string
}

// NewNotification builds a notification from a release. The color is a
// uniform random value in [0, 0xFFFFFF), cosmetic only. Null asset
// slots in the payload are skipped; the remaining assets keep their
// original order.
func NewNotification(release *github.RepositoryRelease) *Notification {
	title := release.GetName()
	if title == "" {
		title = fallbackTitle
	}

	n := &Notification{
		Title: title,
		Color: rand.IntN(0xFFFFFF),
	}

	for _, asset := range release.Assets {
		if asset == nil {
			continue
		}
		n.Fields = append(n.Fields, NotificationField{
			Name:  asset.GetName(),
			Value: fmt.Sprintf("<%s|Download Link>", asset.GetBrowserDownloadURL()),
		})
	}

	return n
}
