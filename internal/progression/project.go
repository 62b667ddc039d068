package progression

import (
	"context"
	"fmt"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// ProjectResult reports a completed project.
type ProjectResult struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Reward    float64 `json:"reward"`
	FirstTime bool    `json:"first_time"`
}

// CompleteProject pays out a project the player has progressed far enough to
// finish. A project is available once its stage is reached and cumulative
// experience covers its requirement; experience is a gate here, not a cost.
// Projects stay repeatable, and only the first completion is recorded on the
// completed set. Source tags where the completion came from (online play or
// offline catch-up) on the emitted event.
func (s *service) CompleteProject(ctx context.Context, profileID string, st *domain.PlayerState, projectID, source string) (*ProjectResult, error) {
	def := s.store.GetProject(ctx, projectID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	if def.Stage > st.Stage {
		return nil, fmt.Errorf("%w: %s requires stage %d", domain.ErrProjectLocked, projectID, def.Stage)
	}
	if st.Experience < def.RequiredExp {
		return nil, fmt.Errorf("%w: %s requires %v experience", domain.ErrProjectLocked, projectID, def.RequiredExp)
	}

	first := !st.HasCompletedProject(projectID)
	if first {
		st.CompletedProjects = append(st.CompletedProjects, projectID)
	}
	st.Stats.ProjectsCompleted++

	if def.BaseReward > 0 {
		s.creditMoney(ctx, profileID, st, def.BaseReward, SourceProject)
	}

	s.publish(ctx, event.NewProjectCompletedEvent(profileID, projectID, def.Name, def.BaseReward, source))
	logger.FromContext(ctx).Info(LogMsgProjectCompleted,
		"profile_id", profileID,
		"project_id", projectID,
		"reward", def.BaseReward,
		"source", source,
		"first_time", first)

	return &ProjectResult{
		ProjectID: projectID,
		Name:      def.Name,
		Reward:    def.BaseReward,
		FirstTime: first,
	}, nil
}
