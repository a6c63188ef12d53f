package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/Keithsel/kien-quoc-sub001/internal/auth"
	"github.com/Keithsel/kien-quoc-sub001/internal/config"
)

type Phase string

const (
	PhaseEvent      Phase = "event"
	PhaseAction     Phase = "action"
	PhaseResolution Phase = "resolution"
	PhaseResult     Phase = "result"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Game-over reasons.
const (
	ReasonCompleted = "completed"
	ReasonIndexZero = "index_zero"
	ReasonHostEnded = "host_ended"
)

// BotOwner marks a team controlled by the engine's bot planner.
const BotOwner = "bot"

// Team is one region's roster entry. Placements is the working set for
// the current turn; Cumulative only grows, merged in on turn advance.
type Team struct {
	ID           string          `json:"id"`
	Index        int             `json:"index"`
	Name         string          `json:"name"`
	Region       config.RegionID `json:"region"`
	SessionToken string          `json:"sessionToken,omitempty"`
	OwnerID      string          `json:"ownerId,omitempty"`
	IsAI         bool            `json:"isAI"`
	Connected    bool            `json:"connected"`
	Submitted    bool            `json:"submitted"`
	Points       float64         `json:"points"`
	Placements   map[string]int  `json:"placements"`
	Cumulative   map[string]int  `json:"cumulativeAllocations"`
	UnderdogTier int             `json:"underdogTier"`
	BonusRP      int             `json:"bonusRP"`
}

// Active reports whether the team takes part in turns: claimed by a
// human or bot-controlled. Disconnection does not deactivate a team.
func (t *Team) Active() bool {
	return t.OwnerID != "" || t.IsAI
}

// PlacedTotal is the team's committed RP for the current turn.
func (t *Team) PlacedTotal() int {
	total := 0
	for _, rp := range t.Placements {
		total += rp
	}
	return total
}

// Allowance is the RP the team may distribute this turn, underdog bonus
// included.
func (t *Team) Allowance() int {
	return config.ResourcesPerTurn + t.BonusRP
}

// ActiveEvent is the turn's event with thresholds already scaled against
// TurnActiveTeams. The scaled values are frozen for the turn; the
// originals are kept for display.
type ActiveEvent struct {
	Turn             int                      `json:"turn"`
	Year             int                      `json:"year"`
	Name             string                   `json:"name"`
	Project          string                   `json:"project"`
	MinTotal         int                      `json:"minTotal"`
	MinTeams         int                      `json:"minTeams"`
	OriginalMinTotal int                      `json:"originalMinTotal"`
	OriginalMinTeams int                      `json:"originalMinTeams"`
	SuccessPoints    int                      `json:"successPoints"`
	SuccessReward    map[config.IndexName]int `json:"successReward"`
	FailurePenalty   map[config.IndexName]int `json:"failurePenalty"`
}

// ProjectTally is the live cross-team pool for the turn's project.
// Success stays nil until resolution.
type ProjectTally struct {
	TotalRP       int            `json:"totalRP"`
	TeamCount     int            `json:"teamCount"`
	Contributions map[string]int `json:"contributions"`
	Success       *bool          `json:"success"`
}

// TurnResult is the engine-computed outcome of one resolution, published
// as-is so clients never re-derive scores.
type TurnResult struct {
	Turn           int                           `json:"turn"`
	ProjectSuccess bool                          `json:"projectSuccess"`
	CellScores     map[string]map[string]float64 `json:"cellScores"`
	TeamPoints     map[string]float64            `json:"teamPoints"`
	IndexChanges   map[config.IndexName]int      `json:"indexChanges"`
	NewIndices     Indices                       `json:"newIndices"`
	TotalScores    map[string]float64            `json:"totalScores"`
}

// TurnHistoryEntry is the append-only audit record of one completed turn.
type TurnHistoryEntry struct {
	Turn           int                      `json:"turn"`
	Year           int                      `json:"year"`
	EventName      string                   `json:"eventName"`
	ProjectSuccess bool                     `json:"projectSuccess"`
	ProjectTotal   int                      `json:"projectTotal"`
	ProjectTeams   int                      `json:"projectTeams"`
	TeamPoints     map[string]float64       `json:"teamPoints"`
	IndexChanges   map[config.IndexName]int `json:"indexChanges"`
	IndicesAfter   Indices                  `json:"indicesAfter"`
}

type Ranking struct {
	Rank     int             `json:"rank"`
	TeamID   string          `json:"teamId"`
	TeamName string          `json:"teamName"`
	Region   config.RegionID `json:"region"`
	Points   float64         `json:"points"`
}

type GameOver struct {
	Reason        string           `json:"reason"`
	FailedIndex   config.IndexName `json:"failedIndex,omitempty"`
	FinalRankings []Ranking        `json:"finalRankings"`
	TurnsPlayed   int              `json:"turnsPlayed"`
	FinalIndices  Indices          `json:"finalIndices"`
}

// State is the aggregate room state. It has exactly one writer (the room
// actor); every mutation goes through the command entry points below.
type State struct {
	RoomCode string `json:"roomCode"`
	HostName string `json:"hostName"`
	Status   Status `json:"status"`

	CurrentTurn     int           `json:"currentTurn"`
	CurrentPhase    Phase         `json:"currentPhase"`
	PhaseEndTime    time.Time     `json:"phaseEndTime"`
	PausedRemaining time.Duration `json:"pausedRemaining,omitempty"`

	Teams           []*Team      `json:"teams"`
	TurnActiveTeams int          `json:"turnActiveTeams"`
	Indices         Indices      `json:"nationalIndices"`
	Event           *ActiveEvent `json:"currentEvent,omitempty"`
	Project         ProjectTally `json:"project"`

	LastTurnResult *TurnResult        `json:"lastTurnResult,omitempty"`
	GameOver       *GameOver          `json:"gameOver,omitempty"`
	History        []TurnHistoryEntry `json:"turnHistory"`

	// Set at resolution, consumed at the result boundary.
	PendingEndReason string           `json:"pendingEndReason,omitempty"`
	CollapsedIndex   config.IndexName `json:"collapsedIndex,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewState creates a waiting room with the five fixed region teams.
func NewState(roomCode, hostName string, now time.Time) *State {
	teams := make([]*Team, 0, config.NumTeams)
	for i := 0; i < config.NumTeams; i++ {
		region, _ := config.RegionByIndex(i)
		teams = append(teams, &Team{
			ID:           uuid.NewString(),
			Index:        i,
			Name:         region.Name,
			Region:       region.ID,
			SessionToken: auth.NewSessionToken(),
			Placements:   map[string]int{},
			Cumulative:   map[string]int{},
		})
	}
	return &State{
		RoomCode:    roomCode,
		HostName:    hostName,
		Status:      StatusWaiting,
		CurrentTurn: 0,
		Teams:       teams,
		Indices:     NewIndices(),
		Project:     ProjectTally{Contributions: map[string]int{}},
		History:     []TurnHistoryEntry{},
		CreatedAt:   now,
	}
}

// TeamByID finds a roster entry.
func (s *State) TeamByID(id string) *Team {
	for _, t := range s.Teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TeamByIndex finds a roster entry by its fixed position.
func (s *State) TeamByIndex(i int) *Team {
	for _, t := range s.Teams {
		if t.Index == i {
			return t
		}
	}
	return nil
}

func (s *State) activeTeamCount() int {
	n := 0
	for _, t := range s.Teams {
		if t.Active() {
			n++
		}
	}
	return n
}

// AllSubmitted reports whether every active team has locked its turn.
func (s *State) AllSubmitted() bool {
	for _, t := range s.Teams {
		if t.Active() && !t.Submitted {
			return false
		}
	}
	return true
}

// PhaseRemaining is the live countdown for the current phase.
func (s *State) PhaseRemaining(now time.Time) time.Duration {
	if s.Status == StatusPaused {
		return s.PausedRemaining
	}
	if s.PhaseEndTime.IsZero() {
		return 0
	}
	d := s.PhaseEndTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// syncProject recomputes the live project tally from team placements.
// Called after every placement edit so the pool stays consistent even
// when a team revises before the phase ends.
func (s *State) syncProject() {
	contrib := map[string]int{}
	total := 0
	for _, t := range s.Teams {
		if rp := t.Placements[config.ProjectCellID]; rp > 0 {
			contrib[t.ID] = rp
			total += rp
		}
	}
	s.Project.Contributions = contrib
	s.Project.TotalRP = total
	s.Project.TeamCount = len(contrib)
}
