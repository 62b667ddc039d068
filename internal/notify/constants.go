package notify

import "time"

// Webhook settings
const (
	// WebhookTimeout bounds a single webhook delivery
	WebhookTimeout = 10 * time.Second

	// LevelAnnounceInterval throttles level-up announcements to every Nth
	// level so early-game spam stays off the channel
	LevelAnnounceInterval = 10
)

// Embed colors
const (
	ColorInfo        = 0x3498DB
	ColorWarning     = 0xE67E22
	ColorCelebration = 0x2ECC71
)

// Announcement titles
const (
	TitleLevelUp       = "Level Up!"
	TitleStageUnlocked = "New Stage Unlocked!"
)

// Error messages
const (
	ErrMsgMarshalPayload = "failed to marshal webhook payload"
	ErrMsgCreateRequest  = "failed to create webhook request"
	ErrMsgSendRequest    = "failed to send webhook request"
	ErrMsgBadStatus      = "webhook returned status"
)

// Log messages
const (
	LogMsgSubscribed       = "Webhook notifier subscribed"
	LogMsgWebhookSent      = "Sent webhook notification"
	LogMsgWebhookFailed    = "Failed to send webhook notification"
	LogMsgInvalidPayload   = "Could not decode event payload for notification"
	LogMsgNotifierDisabled = "Webhook notifier disabled, no URL configured"
)
