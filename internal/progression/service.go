package progression

import (
	"context"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/formula"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Store is the slice of balance data the progression service reads.
type Store interface {
	GetUpgrade(ctx context.Context, id string) *domain.UpgradeDefinition
	GetLevelInfo(ctx context.Context, level int) *domain.LevelDefinition
	GetStageInfo(ctx context.Context, stage int) *domain.StageDefinition
	GetProject(ctx context.Context, id string) *domain.ProjectDefinition
	Levels() []domain.LevelDefinition
	MaxStage() int
}

// Service owns every mutation of player progression: clicks, experience and
// money awards, level and stage advancement, project completion, and the
// derived-value recompute. Callers must hold the profile's session lock for
// the duration of any call; the service itself does no locking.
type Service interface {
	Click(ctx context.Context, profileID string, st *domain.PlayerState) (*ClickResult, error)
	AwardExperience(ctx context.Context, profileID string, st *domain.PlayerState, amount float64, source string) (*AwardResult, error)
	AwardMoney(ctx context.Context, profileID string, st *domain.PlayerState, amount float64, source string) error
	CompleteProject(ctx context.Context, profileID string, st *domain.PlayerState, projectID, source string) (*ProjectResult, error)
	Recalculate(ctx context.Context, profileID string, st *domain.PlayerState) formula.Derived
	NextLevelExp(st *domain.PlayerState) float64
	InitialState() *domain.PlayerState
	SetPlayerData(ctx context.Context, profileID string, st *domain.PlayerState, patch StatePatch) error
	Shutdown(ctx context.Context) error
}

type service struct {
	store     Store
	publisher *event.ResilientPublisher
	now       func() time.Time // injectable for tests
}

// NewService creates a new progression service
func NewService(store Store, publisher *event.ResilientPublisher) Service {
	return &service{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// InitialState returns the state a brand new profile starts with: level 1,
// stage 1, zero currency.
func (s *service) InitialState() *domain.PlayerState {
	return domain.NewPlayerState(s.now())
}

// NextLevelExp returns the cumulative experience needed to reach the next
// level from the state's current one.
func (s *service) NextLevelExp(st *domain.PlayerState) float64 {
	return formula.NextLevelRequirement(s.store.Levels(), st.Level)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}

// Shutdown gracefully shuts down the progression service. Every mutation
// runs inline under the caller's session lock, so there is no background
// work to wait for; the shared publisher is flushed by the bootstrap after
// all services have stopped.
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Progression service shutdown complete")
	return nil
}
