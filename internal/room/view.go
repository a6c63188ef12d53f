package room

import (
	"time"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/types"
)

// FilterState projects room state for one role. The host sees all teams
// in full; a player sees its own allocations plus public summaries;
// spectators get public summaries only. Session tokens never leave the
// engine.
func FilterState(s *engine.State, role engine.Role, teamID string, now time.Time) *types.StateView {
	view := &types.StateView{
		RoomCode:         s.RoomCode,
		Status:           s.Status,
		HostName:         s.HostName,
		CurrentTurn:      s.CurrentTurn,
		CurrentPhase:     s.CurrentPhase,
		PhaseRemainingMs: s.PhaseRemaining(now).Milliseconds(),
		Paused:           s.Status == engine.StatusPaused,
		TurnActiveTeams:  s.TurnActiveTeams,
		Indices:          s.Indices.Clone(),
		Event:            s.Event,
		Project:          s.Project,
		LastTurnResult:   s.LastTurnResult,
		GameOver:         s.GameOver,
		Board:            config.Board,
	}

	for _, t := range s.Teams {
		tv := types.TeamView{
			ID:        t.ID,
			Index:     t.Index,
			Name:      t.Name,
			Region:    t.Region,
			IsAI:      t.IsAI,
			Connected: t.Connected,
			Submitted: t.Submitted,
			Points:    t.Points,
		}
		if role == engine.RoleHost || (role == engine.RolePlayer && t.ID == teamID) {
			tv.Placements = clonePlacements(t.Placements)
			tv.Cumulative = clonePlacements(t.Cumulative)
			remaining := t.Allowance() - t.PlacedTotal()
			tv.RemainingRP = &remaining
			tv.UnderdogTier = t.UnderdogTier
			tv.BonusRP = t.BonusRP
		}
		view.Teams = append(view.Teams, tv)
	}
	return view
}

// FilterUpdate is FilterState minus the static board: the payload for
// ordinary mutation broadcasts, where clients already hold the layout
// from their ROOM_STATE snapshot.
func FilterUpdate(s *engine.State, role engine.Role, teamID string, now time.Time) *types.StateView {
	view := FilterState(s, role, teamID, now)
	view.Board = nil
	return view
}

func clonePlacements(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
