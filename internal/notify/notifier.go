package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Notifier turns progression events into player-facing announcements: each
// one is posted to an external webhook (Discord-compatible) when a URL is
// configured, and republished as a notification event for the SSE surface.
// Milestone unlocks already carry their own announcement from the milestone
// gate, so those are only forwarded to the webhook.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	publisher  *event.ResilientPublisher
	printer    *message.Printer
}

// webhookMessage is the body POSTed to the webhook endpoint
type webhookMessage struct {
	Content string         `json:"content,omitempty"`
	Embeds  []webhookEmbed `json:"embeds,omitempty"`
}

type webhookEmbed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// NewNotifier creates a webhook notifier. An empty URL disables webhook
// delivery; notification republishing still runs. publisher may be nil.
func NewNotifier(webhookURL string, publisher *event.ResilientPublisher) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: WebhookTimeout,
		},
		publisher: publisher,
		printer:   message.NewPrinter(language.English),
	}
}

// Subscribe registers the notifier to listen for announcement-worthy events
func (n *Notifier) Subscribe(bus event.Bus) {
	bus.Subscribe(event.MilestoneUnlocked, n.handleMilestoneUnlocked)
	bus.Subscribe(event.LevelUp, n.handleLevelUp)
	bus.Subscribe(event.StageUnlocked, n.handleStageUnlocked)

	if n.webhookURL == "" {
		logger.Info(LogMsgNotifierDisabled)
		return
	}
	logger.Info(LogMsgSubscribed, "webhook_url", n.webhookURL)
}

// handleMilestoneUnlocked forwards milestone celebrations to the webhook.
// The milestone gate publishes the matching notification event itself.
func (n *Notifier) handleMilestoneUnlocked(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[event.MilestoneUnlockedPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	description := payload.Announcement
	if description == "" {
		description = fmt.Sprintf("**%s** unlocked!", payload.Name)
	}

	if err := n.send(ctx, payload.Name, description, ColorCelebration); err != nil {
		log.Error(LogMsgWebhookFailed, "error", err, "milestone_id", payload.MilestoneID)
		// Don't fail the event handler, just log it
	}

	return nil
}

// handleLevelUp republishes a notification for every level and announces
// every Nth on the webhook so the channel is not flooded during the fast
// early levels.
func (n *Notifier) handleLevelUp(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	description := fmt.Sprintf("Reached level %d! Next level at %s experience.",
		payload.NewLevel,
		n.formatAmount(payload.NextLevelExp))

	n.republish(ctx, payload.ProfileID, TitleLevelUp, description)

	if payload.NewLevel%LevelAnnounceInterval != 0 {
		return nil
	}

	announcement := fmt.Sprintf("**%s** reached level **%d**! Next level at %s experience.",
		payload.ProfileID,
		payload.NewLevel,
		n.formatAmount(payload.NextLevelExp))

	if err := n.send(ctx, TitleLevelUp, announcement, ColorCelebration); err != nil {
		log.Error(LogMsgWebhookFailed, "error", err, "profile_id", payload.ProfileID, "level", payload.NewLevel)
	}

	return nil
}

// handleStageUnlocked announces every stage advance
func (n *Notifier) handleStageUnlocked(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[event.StageUnlockedPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	stageName := payload.StageName
	if stageName == "" {
		stageName = fmt.Sprintf("Stage %d", payload.NewStage)
	}

	n.republish(ctx, payload.ProfileID, TitleStageUnlocked, fmt.Sprintf("Advanced to %s!", stageName))

	announcement := fmt.Sprintf("**%s** advanced to **%s**!", payload.ProfileID, stageName)
	if err := n.send(ctx, TitleStageUnlocked, announcement, ColorCelebration); err != nil {
		log.Error(LogMsgWebhookFailed, "error", err, "profile_id", payload.ProfileID, "stage", payload.NewStage)
	}

	return nil
}

// republish emits a notification event for the SSE surface. Subscriptions
// happen only during wiring, so publishing from inside a handler is safe.
func (n *Notifier) republish(ctx context.Context, profileID, title, msg string) {
	if n.publisher == nil {
		return
	}
	n.publisher.PublishWithRetry(ctx, event.NewNotificationEvent(profileID, title, msg, event.SeverityCelebration))
}

// send POSTs an embed to the webhook URL. A missing URL is a silent no-op.
func (n *Notifier) send(ctx context.Context, title, description string, color int) error {
	if n.webhookURL == "" {
		return nil
	}

	log := logger.FromContext(ctx)

	msg := webhookMessage{
		Embeds: []webhookEmbed{{
			Title:       title,
			Description: description,
			Color:       color,
		}},
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgMarshalPayload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCreateRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSendRequest, err)
	}
	defer resp.Body.Close()

	// Discord answers webhook posts with 204
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s: %d", ErrMsgBadStatus, resp.StatusCode)
	}

	log.Debug(LogMsgWebhookSent, "title", title)
	return nil
}

// formatAmount renders a currency or experience amount with locale-aware
// digit grouping (1234567 -> "1,234,567").
func (n *Notifier) formatAmount(v float64) string {
	return n.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}
