package types

import (
	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
)

// ClientMessage is the single client -> server frame shape. Type selects
// the command; unused fields stay empty.
type ClientMessage struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
	TeamID  string `json:"teamId,omitempty"`
	CellID  string `json:"cellId,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Seconds int    `json:"seconds,omitempty"`
}

// ServerMessage is the server -> client frame. Exactly one payload field
// is set, matching Type.
type ServerMessage struct {
	Type        string              `json:"type"`
	Version     int                 `json:"version,omitempty"`
	State       *StateView          `json:"state,omitempty"`
	TeamID      string              `json:"teamId,omitempty"`
	Phase       engine.Phase        `json:"phase,omitempty"`
	TimeLimitMs int64               `json:"timeLimitMs,omitempty"`
	Event       *engine.ActiveEvent `json:"event,omitempty"`
	Result      *engine.TurnResult  `json:"result,omitempty"`
	GameOver    *engine.GameOver    `json:"gameOver,omitempty"`
	Code        string              `json:"code,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Server message types. ROOM_STATE carries the complete projection
// including the board and is sent once per (re)connect; PARTIAL_UPDATE
// carries the mutable fields only and replaces the client's copy of
// each field it holds.
const (
	MsgAuthSuccess   = "AUTH_SUCCESS"
	MsgAuthFailed    = "AUTH_FAILED"
	MsgRoomState     = "ROOM_STATE"
	MsgPartialUpdate = "PARTIAL_UPDATE"
	MsgTeamJoined    = "TEAM_JOINED"
	MsgTeamLeft      = "TEAM_LEFT"
	MsgTeamSubmitted = "TEAM_SUBMITTED"
	MsgPhaseStarted  = "PHASE_STARTED"
	MsgTurnResult    = "TURN_RESULT"
	MsgGameOver      = "GAME_OVER"
	MsgError         = "ERROR"
)

// TeamView is a team as one role is allowed to see it. Placements,
// remaining RP and the underdog bonus are private to the owning player
// and the host.
type TeamView struct {
	ID        string          `json:"id"`
	Index     int             `json:"index"`
	Name      string          `json:"name"`
	Region    config.RegionID `json:"region"`
	IsAI      bool            `json:"isAI"`
	Connected bool            `json:"connected"`
	Submitted bool            `json:"submitted"`
	Points    float64         `json:"points"`

	Placements   map[string]int `json:"placements,omitempty"`
	Cumulative   map[string]int `json:"cumulativeAllocations,omitempty"`
	RemainingRP  *int           `json:"remainingRP,omitempty"`
	UnderdogTier int            `json:"underdogTier,omitempty"`
	BonusRP      int            `json:"bonusRP,omitempty"`
}

// StateView is the published projection of room state. Every derived
// figure (scaled thresholds, live tallies, scores) is computed by the
// engine and carried here; clients never re-derive them. Board is the
// static cell layout and is omitted from partial updates.
type StateView struct {
	RoomCode         string              `json:"roomCode"`
	Status           engine.Status       `json:"status"`
	HostName         string              `json:"hostName"`
	CurrentTurn      int                 `json:"currentTurn"`
	CurrentPhase     engine.Phase        `json:"currentPhase"`
	PhaseRemainingMs int64               `json:"phaseRemainingMs"`
	Paused           bool                `json:"paused"`
	TurnActiveTeams  int                 `json:"turnActiveTeams"`
	Indices          engine.Indices      `json:"nationalIndices"`
	Event            *engine.ActiveEvent `json:"currentEvent,omitempty"`
	Project          engine.ProjectTally `json:"project"`
	Teams            []TeamView          `json:"teams"`
	LastTurnResult   *engine.TurnResult  `json:"lastTurnResult,omitempty"`
	GameOver         *engine.GameOver    `json:"gameOver,omitempty"`
	Board            []config.Cell       `json:"board,omitempty"`
}
