package milestone

import (
	"context"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Service evaluates milestone gates against player state. The unlocked set
// on the state is append-only; milestones never re-lock, even if a balance
// reload tightens their requirements afterwards. Callers must hold the
// profile's session lock, same as the progression service.
type Service interface {
	CheckAll(ctx context.Context, profileID string, st *domain.PlayerState) []Definition
	IsUnlocked(st *domain.PlayerState, id string) bool
	IsUnlockedType(st *domain.PlayerState, milestoneType string) bool
	PendingSoon(st *domain.PlayerState, withinLevels int) []Definition
	Definitions() []Definition
	Get(id string) (*Definition, bool)
}

type service struct {
	defs      []Definition
	byID      map[string]*Definition
	byType    map[string][]*Definition
	publisher *event.ResilientPublisher
}

// NewService validates the config and builds a milestone service from it.
func NewService(cfg *Config, publisher *event.ResilientPublisher) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &service{
		defs:      cfg.Milestones,
		byID:      make(map[string]*Definition, len(cfg.Milestones)),
		byType:    make(map[string][]*Definition),
		publisher: publisher,
	}
	for i := range s.defs {
		def := &s.defs[i]
		s.byID[def.ID] = def
		if def.Type != "" {
			s.byType[def.Type] = append(s.byType[def.Type], def)
		}
	}
	return s, nil
}

// CheckAll evaluates every locked milestone against the current state and
// unlocks the ones whose gates are open, publishing an unlock event and a
// celebration notification for each. Evaluation repeats until a pass
// unlocks nothing, so a prerequisite chain satisfied in one shot (a big
// offline catch-up, say) resolves in a single call. Safe to call on every
// level-up; already-unlocked milestones are never touched again.
func (s *service) CheckAll(ctx context.Context, profileID string, st *domain.PlayerState) []Definition {
	log := logger.FromContext(ctx)

	var unlocked []Definition
	for {
		progressed := false
		for i := range s.defs {
			def := &s.defs[i]
			if st.HasMilestone(def.ID) {
				continue
			}
			if !s.gateOpen(st, def) {
				continue
			}

			st.AddMilestone(def.ID)
			unlocked = append(unlocked, *def)
			progressed = true

			s.publish(ctx, event.NewMilestoneUnlockedEvent(profileID, def.ID, def.Name, def.Announcement))
			if def.Announcement != "" {
				s.publish(ctx, event.NewNotificationEvent(profileID, def.Name, def.Announcement, event.SeverityCelebration))
			}
			log.Info(LogMsgMilestoneUnlocked,
				"profile_id", profileID,
				"milestone_id", def.ID,
				"level", st.Level,
				"stage", st.Stage)
		}
		if !progressed {
			return unlocked
		}
	}
}

// gateOpen reports whether every requirement of a milestone holds.
func (s *service) gateOpen(st *domain.PlayerState, def *Definition) bool {
	if def.RequiredLevel > 0 && st.Level < def.RequiredLevel {
		return false
	}
	if def.RequiredStage > 0 && st.Stage < def.RequiredStage {
		return false
	}
	if def.Prerequisite != "" && !st.HasMilestone(def.Prerequisite) {
		return false
	}
	return true
}

// IsUnlocked reports whether a milestone id is unlocked for the state.
// Unknown ids are simply locked.
func (s *service) IsUnlocked(st *domain.PlayerState, id string) bool {
	return st.HasMilestone(id)
}

// IsUnlockedType reports whether any milestone of the given type is
// unlocked for the state.
func (s *service) IsUnlockedType(st *domain.PlayerState, milestoneType string) bool {
	for _, def := range s.byType[milestoneType] {
		if st.HasMilestone(def.ID) {
			return true
		}
	}
	return false
}

// PendingSoon returns the locked milestones that are close: prerequisite
// already unlocked and every unmet requirement within the proximity window.
// withinLevels widens or narrows the level window; values below one fall
// back to the default. Clients surface these as "coming up" hints.
func (s *service) PendingSoon(st *domain.PlayerState, withinLevels int) []Definition {
	if withinLevels < 1 {
		withinLevels = PendingSoonLevelWindow
	}

	var pending []Definition
	for i := range s.defs {
		def := &s.defs[i]
		if st.HasMilestone(def.ID) {
			continue
		}
		if def.Prerequisite != "" && !st.HasMilestone(def.Prerequisite) {
			continue
		}
		if def.RequiredLevel > 0 && def.RequiredLevel-st.Level > withinLevels {
			continue
		}
		if def.RequiredStage > 0 && def.RequiredStage-st.Stage > PendingSoonStageWindow {
			continue
		}
		pending = append(pending, *def)
	}
	return pending
}

// Definitions returns every milestone definition in config order.
func (s *service) Definitions() []Definition {
	return s.defs
}

// Get returns a milestone definition by id.
func (s *service) Get(id string) (*Definition, bool) {
	def, ok := s.byID[id]
	return def, ok
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
