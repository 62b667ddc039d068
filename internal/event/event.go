package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}

	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}

	return nil
}

// Common event types
const (
	MoneyChanged       Type = domain.EventTypeMoneyChanged
	ExperienceChanged  Type = domain.EventTypeExperienceChanged
	ClickValuesChanged Type = domain.EventTypeClickValuesChanged
	AutoIncomeChanged  Type = domain.EventTypeAutoIncomeChanged
	LevelUp            Type = domain.EventTypeLevelUp
	StageUnlocked      Type = domain.EventTypeStageUnlocked
	MilestoneUnlocked  Type = domain.EventTypeMilestoneUnlocked
	UpgradePurchased   Type = domain.EventTypeUpgradePurchased
	ProjectCompleted   Type = domain.EventTypeProjectCompleted
	OfflineProgress    Type = domain.EventTypeOfflineProgress
	Notification       Type = domain.EventTypeNotification
	BalanceReloaded    Type = domain.EventTypeBalanceReloaded
	GameSaved          Type = domain.EventTypeGameSaved
)

// Typed event payloads for type safety

// CurrencyChangedPayloadV1 is the typed payload for money and experience
// changed events. Delta is signed; purchases produce negative money deltas.
type CurrencyChangedPayloadV1 struct {
	ProfileID string  `json:"profile_id"`
	Delta     float64 `json:"delta"`
	Total     float64 `json:"total"`
	Source    string  `json:"source,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// ClickValuesChangedPayloadV1 is the typed payload for click value recomputes
type ClickValuesChangedPayloadV1 struct {
	ProfileID     string  `json:"profile_id"`
	ExpPerClick   float64 `json:"exp_per_click"`
	MoneyPerClick float64 `json:"money_per_click"`
	Timestamp     int64   `json:"timestamp"`
}

// AutoIncomeChangedPayloadV1 is the typed payload for auto income recomputes
type AutoIncomeChangedPayloadV1 struct {
	ProfileID     string  `json:"profile_id"`
	AutoExpRate   float64 `json:"auto_exp_rate"`
	AutoMoneyRate float64 `json:"auto_money_rate"`
	Timestamp     int64   `json:"timestamp"`
}

// LevelUpPayloadV1 is the typed payload for level up events. One event is
// published per level even when a single award crosses several thresholds.
type LevelUpPayloadV1 struct {
	ProfileID    string  `json:"profile_id"`
	OldLevel     int     `json:"old_level"`
	NewLevel     int     `json:"new_level"`
	NextLevelExp float64 `json:"next_level_exp"`
	BonusReward  float64 `json:"bonus_reward,omitempty"`
	Source       string  `json:"source,omitempty"`
	Timestamp    int64   `json:"timestamp"`
}

// StageUnlockedPayloadV1 is the typed payload for stage advancement events
type StageUnlockedPayloadV1 struct {
	ProfileID string `json:"profile_id"`
	OldStage  int    `json:"old_stage"`
	NewStage  int    `json:"new_stage"`
	StageName string `json:"stage_name,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// MilestoneUnlockedPayloadV1 is the typed payload for milestone unlock events
type MilestoneUnlockedPayloadV1 struct {
	ProfileID    string `json:"profile_id"`
	MilestoneID  string `json:"milestone_id"`
	Name         string `json:"name"`
	Announcement string `json:"announcement,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// UpgradePurchasedPayloadV1 is the typed payload for successful purchases
type UpgradePurchasedPayloadV1 struct {
	ProfileID string  `json:"profile_id"`
	UpgradeID string  `json:"upgrade_id"`
	NewLevel  int     `json:"new_level"`
	PricePaid float64 `json:"price_paid"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

// ProjectCompletedPayloadV1 is the typed payload for project completions
type ProjectCompletedPayloadV1 struct {
	ProfileID string  `json:"profile_id"`
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Reward    float64 `json:"reward"`
	Source    string  `json:"source,omitempty"` // "online" or "offline"
	Timestamp int64   `json:"timestamp"`
}

// OfflineProgressPayloadV1 is the typed payload for applied offline reports
type OfflineProgressPayloadV1 struct {
	ProfileID         string  `json:"profile_id"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
	EffectiveSeconds  float64 `json:"effective_seconds"`
	ExpEarned         float64 `json:"exp_earned"`
	MoneyEarned       float64 `json:"money_earned"`
	ProjectsCompleted int     `json:"projects_completed"`
	Capped            bool    `json:"capped"`
	Timestamp         int64   `json:"timestamp"`
}

// NotificationPayloadV1 is the typed payload for client-facing announcements
type NotificationPayloadV1 struct {
	ProfileID string `json:"profile_id,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Severity  string `json:"severity,omitempty"` // "info", "warning", "celebration"
	Timestamp int64  `json:"timestamp"`
}

// BalanceReloadedPayloadV1 is the typed payload for balance reload events
type BalanceReloadedPayloadV1 struct {
	Upgrades  int   `json:"upgrades"`
	Levels    int   `json:"levels"`
	Projects  int   `json:"projects"`
	Stages    int   `json:"stages"`
	Timestamp int64 `json:"timestamp"`
}

// GameSavedPayloadV1 is the typed payload for save attempts
type GameSavedPayloadV1 struct {
	ProfileID string `json:"profile_id"`
	SaveCount int64  `json:"save_count"`
	Success   bool   `json:"success"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewMoneyChangedEvent creates a new money changed event with type-safe payload
func NewMoneyChangedEvent(profileID string, delta, total float64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MoneyChanged,
		Payload: CurrencyChangedPayloadV1{
			ProfileID: profileID,
			Delta:     delta,
			Total:     total,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewExperienceChangedEvent creates a new experience changed event
func NewExperienceChangedEvent(profileID string, delta, total float64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ExperienceChanged,
		Payload: CurrencyChangedPayloadV1{
			ProfileID: profileID,
			Delta:     delta,
			Total:     total,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewClickValuesChangedEvent creates a new click values changed event
func NewClickValuesChangedEvent(profileID string, expPerClick, moneyPerClick float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ClickValuesChanged,
		Payload: ClickValuesChangedPayloadV1{
			ProfileID:     profileID,
			ExpPerClick:   expPerClick,
			MoneyPerClick: moneyPerClick,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewAutoIncomeChangedEvent creates a new auto income changed event
func NewAutoIncomeChangedEvent(profileID string, autoExpRate, autoMoneyRate float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AutoIncomeChanged,
		Payload: AutoIncomeChangedPayloadV1{
			ProfileID:     profileID,
			AutoExpRate:   autoExpRate,
			AutoMoneyRate: autoMoneyRate,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewLevelUpEvent creates a new level up event
func NewLevelUpEvent(profileID string, oldLevel, newLevel int, nextLevelExp, bonusReward float64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{
			ProfileID:    profileID,
			OldLevel:     oldLevel,
			NewLevel:     newLevel,
			NextLevelExp: nextLevelExp,
			BonusReward:  bonusReward,
			Source:       source,
			Timestamp:    time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			domain.MetadataKeySource: source,
		},
	}
}

// NewStageUnlockedEvent creates a new stage unlocked event
func NewStageUnlockedEvent(profileID string, oldStage, newStage int, stageName string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    StageUnlocked,
		Payload: StageUnlockedPayloadV1{
			ProfileID: profileID,
			OldStage:  oldStage,
			NewStage:  newStage,
			StageName: stageName,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewMilestoneUnlockedEvent creates a new milestone unlocked event
func NewMilestoneUnlockedEvent(profileID, milestoneID, name, announcement string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MilestoneUnlocked,
		Payload: MilestoneUnlockedPayloadV1{
			ProfileID:    profileID,
			MilestoneID:  milestoneID,
			Name:         name,
			Announcement: announcement,
			Timestamp:    time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			domain.MetadataKeyMilestoneID: milestoneID,
		},
	}
}

// NewUpgradePurchasedEvent creates a new upgrade purchased event
func NewUpgradePurchasedEvent(profileID, upgradeID string, newLevel int, pricePaid float64, currency string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    UpgradePurchased,
		Payload: UpgradePurchasedPayloadV1{
			ProfileID: profileID,
			UpgradeID: upgradeID,
			NewLevel:  newLevel,
			PricePaid: pricePaid,
			Currency:  currency,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			domain.MetadataKeyUpgradeID: upgradeID,
		},
	}
}

// NewProjectCompletedEvent creates a new project completed event
func NewProjectCompletedEvent(profileID, projectID, name string, reward float64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProjectCompleted,
		Payload: ProjectCompletedPayloadV1{
			ProfileID: profileID,
			ProjectID: projectID,
			Name:      name,
			Reward:    reward,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			domain.MetadataKeySource: source,
		},
	}
}

// NewOfflineProgressEvent creates a new offline progress event from a report
func NewOfflineProgressEvent(profileID string, report *domain.OfflineReport) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OfflineProgress,
		Payload: OfflineProgressPayloadV1{
			ProfileID:         profileID,
			ElapsedSeconds:    report.Elapsed.Seconds(),
			EffectiveSeconds:  report.Effective.Seconds(),
			ExpEarned:         report.ExpEarned,
			MoneyEarned:       report.MoneyEarned,
			ProjectsCompleted: len(report.Projects),
			Capped:            report.Capped,
			Timestamp:         time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewNotificationEvent creates a new notification event
func NewNotificationEvent(profileID, title, message, severity string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Notification,
		Payload: NotificationPayloadV1{
			ProfileID: profileID,
			Title:     title,
			Message:   message,
			Severity:  severity,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewBalanceReloadedEvent creates a new balance reloaded event
func NewBalanceReloadedEvent(upgrades, levels, projects, stages int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BalanceReloaded,
		Payload: BalanceReloadedPayloadV1{
			Upgrades:  upgrades,
			Levels:    levels,
			Projects:  projects,
			Stages:    stages,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewGameSavedEvent creates a new game saved event
func NewGameSavedEvent(profileID string, saveCount int64, success bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GameSaved,
		Payload: GameSavedPayloadV1{
			ProfileID: profileID,
			SaveCount: saveCount,
			Success:   success,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously on the publisher's goroutine. Engine
	// mutations happen under the session lock, so handlers must not call
	// back into the engine.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
