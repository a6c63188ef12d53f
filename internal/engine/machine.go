package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
)

func phaseDuration(p Phase) time.Duration {
	switch p {
	case PhaseEvent:
		return config.PhaseEventDuration
	case PhaseAction:
		return config.PhaseActionDuration
	case PhaseResolution:
		return config.PhaseResolutionDuration
	case PhaseResult:
		return config.PhaseResultDuration
	}
	return 0
}

// StartGame moves a waiting room into play. With fillBots set, unclaimed
// teams come under bot control so a single human can run a full game.
func (s *State) StartGame(fillBots bool, now time.Time) error {
	if s.Status != StatusWaiting {
		return fmt.Errorf("%w: game already started", ErrPhaseViolation)
	}
	if fillBots {
		for _, t := range s.Teams {
			if t.OwnerID == "" {
				t.IsAI = true
				t.OwnerID = BotOwner
			}
		}
	}
	if n := s.activeTeamCount(); n < config.MinTeamsToStart {
		return fmt.Errorf("%w: need at least %d teams, have %d", ErrCapacity, config.MinTeamsToStart, n)
	}
	s.Status = StatusPlaying
	s.CurrentTurn = 1
	s.enterEvent(now)
	return nil
}

// enterEvent opens a turn: locks the active-team count, freezes the
// scaled thresholds, refreshes underdog tiers, and arms the event phase.
func (s *State) enterEvent(now time.Time) {
	s.TurnActiveTeams = s.activeTeamCount()

	if ev, ok := config.EventByTurn(s.CurrentTurn); ok {
		minTotal := (ev.MinTotal*s.TurnActiveTeams + config.NumTeams - 1) / config.NumTeams
		minTeams := ev.MinTeams
		if minTeams > s.TurnActiveTeams {
			minTeams = s.TurnActiveTeams
		}
		s.Event = &ActiveEvent{
			Turn:             ev.Turn,
			Year:             ev.Year,
			Name:             ev.Name,
			Project:          ev.Project,
			MinTotal:         minTotal,
			MinTeams:         minTeams,
			OriginalMinTotal: ev.MinTotal,
			OriginalMinTeams: ev.MinTeams,
			SuccessPoints:    ev.SuccessPoints,
			SuccessReward:    ev.SuccessReward,
			FailurePenalty:   ev.FailurePenalty,
		}
	} else {
		s.Event = nil
	}

	s.Project = ProjectTally{Contributions: map[string]int{}}
	s.refreshUnderdogTiers()

	s.CurrentPhase = PhaseEvent
	s.PhaseEndTime = now.Add(phaseDuration(PhaseEvent))
}

// refreshUnderdogTiers ranks active teams by points and marks the bottom
// fraction. Tiers are granted from their start turns onward and fix the
// team's extra RP for the whole turn.
func (s *State) refreshUnderdogTiers() {
	for _, t := range s.Teams {
		t.UnderdogTier = 0
		t.BonusRP = 0
	}
	if s.CurrentTurn < config.UnderdogStartTurnTier1 {
		return
	}

	active := make([]*Team, 0, len(s.Teams))
	for _, t := range s.Teams {
		if t.Active() {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Points != active[j].Points {
			return active[i].Points < active[j].Points
		}
		return active[i].Index < active[j].Index
	})

	eligible := int(float64(len(active)) * config.UnderdogThreshold)
	tier := 1
	bonus := config.UnderdogBonusRPTier1
	if s.CurrentTurn >= config.UnderdogStartTurnTier2 {
		tier = 2
		bonus = config.UnderdogBonusRPTier2
	}
	for i := 0; i < eligible && i < len(active); i++ {
		active[i].UnderdogTier = tier
		active[i].BonusRP = bonus
	}
}

// PlaceResource adds RP onto a cell during the action phase. The
// resulting total must stay within the team's allowance.
func (s *State) PlaceResource(teamID, cellID string, amount int) error {
	if err := s.requireActionPhase(); err != nil {
		return err
	}
	team := s.TeamByID(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	if team.Submitted {
		return fmt.Errorf("%w: turn already submitted", ErrPhaseViolation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrStructural)
	}
	if !config.ValidCellID(cellID) {
		return fmt.Errorf("%w: unknown cell %q", ErrStructural, cellID)
	}
	if remaining := team.Allowance() - team.PlacedTotal(); amount > remaining {
		return fmt.Errorf("%w: %d RP remaining", ErrCapacity, remaining)
	}
	team.Placements[cellID] += amount
	s.syncProject()
	return nil
}

// RemoveResource takes RP back off a cell during the action phase.
func (s *State) RemoveResource(teamID, cellID string, amount int) error {
	if err := s.requireActionPhase(); err != nil {
		return err
	}
	team := s.TeamByID(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	if team.Submitted {
		return fmt.Errorf("%w: turn already submitted", ErrPhaseViolation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrStructural)
	}
	placed := team.Placements[cellID]
	if amount > placed {
		return fmt.Errorf("%w: only %d RP placed on %s", ErrStructural, placed, cellID)
	}
	if placed == amount {
		delete(team.Placements, cellID)
	} else {
		team.Placements[cellID] = placed - amount
	}
	s.syncProject()
	return nil
}

// SubmitTurn locks a team's placements. Idempotent: resubmitting is a
// no-op.
func (s *State) SubmitTurn(teamID string) error {
	if err := s.requireActionPhase(); err != nil {
		return err
	}
	team := s.TeamByID(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	team.Submitted = true
	return nil
}

func (s *State) requireActionPhase() error {
	if s.Status == StatusFinished {
		return fmt.Errorf("%w: %v", ErrPhaseViolation, ErrGameFinished)
	}
	if s.Status != StatusPlaying && s.Status != StatusPaused {
		return fmt.Errorf("%w: %v", ErrPhaseViolation, ErrNotStarted)
	}
	if s.CurrentPhase != PhaseAction {
		return fmt.Errorf("%w: current phase is %s", ErrPhaseViolation, s.CurrentPhase)
	}
	return nil
}

// AdvancePhase performs exactly one transition of the event -> action ->
// resolution -> result cycle. The caller (room actor) decides when:
// timer expiry, all-submitted, or host skip.
func (s *State) AdvancePhase(now time.Time) ([]Event, error) {
	if s.Status == StatusFinished {
		return nil, fmt.Errorf("%w: %v", ErrPhaseViolation, ErrGameFinished)
	}
	if s.Status == StatusPaused {
		return nil, fmt.Errorf("%w: %v", ErrPhaseViolation, ErrGamePaused)
	}
	if s.Status != StatusPlaying {
		return nil, fmt.Errorf("%w: %v", ErrPhaseViolation, ErrNotStarted)
	}

	switch s.CurrentPhase {
	case PhaseEvent:
		s.CurrentPhase = PhaseAction
		s.PhaseEndTime = now.Add(phaseDuration(PhaseAction))
		return []Event{{Type: EvtPhaseStarted, Phase: PhaseAction}}, nil

	case PhaseAction:
		// Unsubmitted teams are scored with whatever they last saved.
		for _, t := range s.Teams {
			t.Submitted = true
		}
		s.CurrentPhase = PhaseResolution
		s.PhaseEndTime = now.Add(phaseDuration(PhaseResolution))
		return []Event{{Type: EvtPhaseStarted, Phase: PhaseResolution}}, nil

	case PhaseResolution:
		result := s.resolveTurn()
		s.CurrentPhase = PhaseResult
		s.PhaseEndTime = now.Add(phaseDuration(PhaseResult))
		return []Event{
			{Type: EvtTurnResolved, Result: result},
			{Type: EvtPhaseStarted, Phase: PhaseResult},
		}, nil

	case PhaseResult:
		if s.PendingEndReason != "" {
			s.finishGame(s.PendingEndReason)
			return []Event{{Type: EvtGameOver, GameOver: s.GameOver}}, nil
		}
		s.CurrentTurn++
		for _, t := range s.Teams {
			t.Placements = map[string]int{}
			t.Submitted = false
		}
		s.enterEvent(now)
		return []Event{{Type: EvtPhaseStarted, Phase: PhaseEvent}}, nil
	}
	return nil, fmt.Errorf("%w: phase %q", ErrStructural, s.CurrentPhase)
}

// resolveTurn runs the scoring resolver and the index ledger against the
// frozen thresholds, updates cumulative team state, and appends the audit
// record. Terminal conditions are detected here and acted on at the
// result boundary.
func (s *State) resolveTurn() *TurnResult {
	placements := map[string]map[string]int{}
	contexts := map[string]TeamScoringContext{}
	for _, t := range s.Teams {
		placements[t.ID] = t.Placements
		region, _ := config.RegionByIndex(t.Index)
		specialties := map[config.IndexName]bool{}
		for _, name := range region.Specialties {
			specialties[name] = true
		}
		contexts[t.ID] = TeamScoringContext{
			Specialties:  specialties,
			UnderdogTier: t.UnderdogTier,
		}
	}

	scores := ResolveScores(placements, contexts)

	// Project outcome against the thresholds frozen at phase event.
	success := false
	var projectDelta map[config.IndexName]int
	if s.Event != nil {
		success = s.Project.TotalRP >= s.Event.MinTotal && s.Project.TeamCount >= s.Event.MinTeams
		if success {
			projectDelta = s.Event.SuccessReward
			if n := s.Project.TeamCount; n > 0 {
				share := float64(s.Event.SuccessPoints) / float64(n)
				for teamID := range s.Project.Contributions {
					scores.TeamPoints[teamID] += share
				}
			}
		} else {
			projectDelta = s.Event.FailurePenalty
		}
	}
	s.Project.Success = &success

	changes, collapsed, collapsedAny := settleIndices(s.Indices, projectDelta, scores.ZoneBoosts)

	totals := map[string]float64{}
	for _, t := range s.Teams {
		t.Points += scores.TeamPoints[t.ID]
		totals[t.ID] = t.Points
		for cellID, rp := range t.Placements {
			t.Cumulative[cellID] += rp
		}
	}

	result := &TurnResult{
		Turn:           s.CurrentTurn,
		ProjectSuccess: success,
		CellScores:     scores.CellScores,
		TeamPoints:     scores.TeamPoints,
		IndexChanges:   changes,
		NewIndices:     s.Indices.Clone(),
		TotalScores:    totals,
	}
	s.LastTurnResult = result

	year := 0
	eventName := ""
	if s.Event != nil {
		year = s.Event.Year
		eventName = s.Event.Name
	}
	s.History = append(s.History, TurnHistoryEntry{
		Turn:           s.CurrentTurn,
		Year:           year,
		EventName:      eventName,
		ProjectSuccess: success,
		ProjectTotal:   s.Project.TotalRP,
		ProjectTeams:   s.Project.TeamCount,
		TeamPoints:     scores.TeamPoints,
		IndexChanges:   changes,
		IndicesAfter:   s.Indices.Clone(),
	})

	if collapsedAny {
		s.PendingEndReason = ReasonIndexZero
		s.CollapsedIndex = collapsed
	} else if s.CurrentTurn >= config.MaxTurns {
		s.PendingEndReason = ReasonCompleted
	}
	return result
}

// finishGame is the single terminal transition. Ranking sorts by points
// descending with team index as the stable tie-break.
func (s *State) finishGame(reason string) {
	ranked := make([]*Team, len(s.Teams))
	copy(ranked, s.Teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Index < ranked[j].Index
	})

	rankings := make([]Ranking, 0, len(ranked))
	for i, t := range ranked {
		rankings = append(rankings, Ranking{
			Rank:     i + 1,
			TeamID:   t.ID,
			TeamName: t.Name,
			Region:   t.Region,
			Points:   t.Points,
		})
	}

	s.GameOver = &GameOver{
		Reason:        reason,
		FailedIndex:   s.CollapsedIndex,
		FinalRankings: rankings,
		TurnsPlayed:   s.CurrentTurn,
		FinalIndices:  s.Indices.Clone(),
	}
	s.Status = StatusFinished
	s.PhaseEndTime = time.Time{}
}

// Pause freezes the phase countdown.
func (s *State) Pause(now time.Time) error {
	if s.Status != StatusPlaying {
		return fmt.Errorf("%w: cannot pause while %s", ErrPhaseViolation, s.Status)
	}
	s.PausedRemaining = s.PhaseRemaining(now)
	s.Status = StatusPaused
	return nil
}

// Resume recomputes the phase deadline from the frozen remainder.
func (s *State) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return fmt.Errorf("%w: game is not paused", ErrPhaseViolation)
	}
	s.PhaseEndTime = now.Add(s.PausedRemaining)
	s.PausedRemaining = 0
	s.Status = StatusPlaying
	return nil
}

// ExtendTime pushes the current phase deadline out.
func (s *State) ExtendTime(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: seconds must be positive", ErrStructural)
	}
	switch s.Status {
	case StatusPlaying:
		s.PhaseEndTime = s.PhaseEndTime.Add(time.Duration(seconds) * time.Second)
	case StatusPaused:
		s.PausedRemaining += time.Duration(seconds) * time.Second
	default:
		return fmt.Errorf("%w: cannot extend while %s", ErrPhaseViolation, s.Status)
	}
	return nil
}

// AttachTeam claims a region for a player. Reconnection re-attaches via
// the session token, so a claimed team is a hard capacity error.
func (s *State) AttachTeam(teamIndex int, ownerID, name string) (*Team, error) {
	if s.Status == StatusFinished {
		return nil, fmt.Errorf("%w: %v", ErrPhaseViolation, ErrGameFinished)
	}
	team := s.TeamByIndex(teamIndex)
	if team == nil {
		return nil, fmt.Errorf("%w: no team at index %d", ErrStructural, teamIndex)
	}
	if team.Active() {
		return nil, fmt.Errorf("%w: region %s already taken", ErrCapacity, team.Region)
	}
	team.OwnerID = ownerID
	if name != "" {
		team.Name = name
	}
	return team, nil
}

// KickTeam releases a team's ownership. Accumulated points, placements
// and history stay, the seat just opens up (or falls to a bot mid-game).
func (s *State) KickTeam(teamID string) error {
	team := s.TeamByID(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	team.OwnerID = ""
	team.IsAI = false
	team.Connected = false
	return nil
}

// EndEarly is the host's immediate terminal.
func (s *State) EndEarly() error {
	if s.Status == StatusFinished {
		return fmt.Errorf("%w: %v", ErrPhaseViolation, ErrGameFinished)
	}
	s.finishGame(ReasonHostEnded)
	return nil
}
