package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/utils/async"
	"github.com/slack-go/slack"
)

var (
	// ErrAlreadyInitialized is returned when Init is called after a
	// successful initialization. The stored channel and credentials are
	// never overwritten.
	ErrAlreadyInitialized = goerr.New("slack client already initialized")

	// ErrNotInitialized is returned by operations invoked before Init
	ErrNotInitialized = goerr.New("slack client not initialized")
)

// Client is the single point of contact with Slack: fire-and-forget
// channel posts plus the RTM connection that keeps the bot shown as
// active. The channel target and credentials are set exactly once via
// Init and are read-only afterwards.
type Client struct {
	mu        sync.Mutex
	api       *slack.Client
	rtm       *slack.RTM
	channelID string
}

// New creates an uninitialized Client
func New() *Client {
	return &Client{}
}

// Init stores the bot credentials and target channel. It must succeed
// exactly once for the life of the process; any later call fails with
// ErrAlreadyInitialized without touching the stored state.
func (c *Client) Init(token, channelID string, opts ...slack.Option) error {
	if strings.TrimSpace(token) == "" {
		return goerr.New("slack bot token is empty")
	}
	if strings.TrimSpace(channelID) == "" {
		return goerr.New("slack channel ID is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		return ErrAlreadyInitialized
	}

	c.api = slack.New(token, opts...)
	c.channelID = channelID
	return nil
}

func (c *Client) target() (*slack.Client, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil {
		return nil, "", ErrNotInitialized
	}
	return c.api, c.channelID, nil
}

// PostText sends a plain text message to the configured channel
func (c *Client) PostText(ctx context.Context, text string) error {
	api, channelID, err := c.target()
	if err != nil {
		return err
	}

	if _, _, err := api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}
	return nil
}

// PostNotification sends a single rich message carrying one attachment
// built from the notification: title, hex color and one field per
// asset.
func (c *Client) PostNotification(ctx context.Context, n *model.Notification) error {
	api, channelID, err := c.target()
	if err != nil {
		return err
	}

	fields := make([]slack.AttachmentField, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, slack.AttachmentField{
			Title: f.Name,
			Value: f.Value,
		})
	}

	attachment := slack.Attachment{
		Title:      n.Title,
		Color:      fmt.Sprintf("#%06x", n.Color),
		Fields:     fields,
		MarkdownIn: []string{"fields"},
	}

	if _, _, err := api.PostMessageContext(ctx, channelID, slack.MsgOptionAttachments(attachment)); err != nil {
		return goerr.Wrap(err, "failed to post notification", goerr.V("channel_id", channelID))
	}
	return nil
}

// StartPresence opens the RTM connection and hands it to a background
// drain loop. The connection exists only so the bot is shown as
// active; it is not part of the request path and is never reconnected
// at this level once the event stream ends.
func (c *Client) StartPresence(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil {
		return ErrNotInitialized
	}
	if c.rtm != nil {
		return goerr.New("presence connection already started")
	}

	c.rtm = c.api.NewRTM()
	go c.rtm.ManageConnection()
	go drainEvents(ctx, c.rtm)

	return nil
}

// drainEvents keeps the RTM socket from starving by receiving every
// incoming event and discarding it on an independent task. Recoverable
// per-event errors are logged and the loop continues; the loop exits
// when the stream ends.
func drainEvents(ctx context.Context, rtm *slack.RTM) {
	logger := ctxlog.From(ctx)

	for ev := range rtm.IncomingEvents {
		switch data := ev.Data.(type) {
		case *slack.InvalidAuthEvent:
			logger.Error("presence connection rejected by Slack, stopping drain loop")
			return
		case *slack.ConnectionErrorEvent:
			logger.Warn("presence connection error", "error", data.Error())
			continue
		case *slack.RTMError:
			logger.Warn("presence event error", "error", data.Error())
			continue
		}

		event := ev
		async.Dispatch(ctx, func(ctx context.Context) error {
			_ = event
			return nil
		})
	}

	logger.Info("presence event stream ended")
}

// Close tears down the presence connection if one is open
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rtm == nil {
		return nil
	}

	if err := c.rtm.Disconnect(); err != nil {
		return goerr.Wrap(err, "failed to disconnect presence connection")
	}
	c.rtm = nil
	return nil
}
