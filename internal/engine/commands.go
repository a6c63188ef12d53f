package engine

import (
	"fmt"
	"time"
)

// Role scopes what a connection may do.
type Role string

const (
	RoleHost      Role = "host"
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

func ParseRole(r string) (Role, bool) {
	switch Role(r) {
	case RoleHost, RolePlayer, RoleSpectator:
		return Role(r), true
	}
	return "", false
}

type CommandType string

const (
	CmdPlaceResource  CommandType = "PLACE_RESOURCE"
	CmdRemoveResource CommandType = "REMOVE_RESOURCE"
	CmdSubmitTurn     CommandType = "SUBMIT_TURN"
	CmdHostStartGame  CommandType = "HOST_START_GAME"
	CmdHostPauseGame  CommandType = "HOST_PAUSE_GAME"
	CmdHostResumeGame CommandType = "HOST_RESUME_GAME"
	CmdHostSkipPhase  CommandType = "HOST_SKIP_PHASE"
	CmdHostExtendTime CommandType = "HOST_EXTEND_TIME"
	CmdHostKickTeam   CommandType = "HOST_KICK_TEAM"
	CmdHostEndGame    CommandType = "HOST_END_GAME"
)

// Command is one role-scoped mutation request. Role and TeamID are set
// by the transport from the authenticated connection, never trusted from
// the payload, so a team cannot issue another team's commands.
type Command struct {
	Type     CommandType
	Role     Role
	TeamID   string // acting team for player commands
	CellID   string
	Amount   int
	Seconds  int
	TargetID string // team targeted by HOST_KICK_TEAM
	FillBots bool
}

type EventType string

const (
	EvtPhaseStarted  EventType = "PhaseStarted"
	EvtTurnResolved  EventType = "TurnResolved"
	EvtTeamSubmitted EventType = "TeamSubmitted"
	EvtGameOver      EventType = "GameOver"
)

// Event records a side effect of a command worth announcing beyond the
// plain state broadcast.
type Event struct {
	Type     EventType
	Phase    Phase
	TeamID   string
	Result   *TurnResult
	GameOver *GameOver
}

func isHostCommand(t CommandType) bool {
	switch t {
	case CmdHostStartGame, CmdHostPauseGame, CmdHostResumeGame,
		CmdHostSkipPhase, CmdHostExtendTime, CmdHostKickTeam, CmdHostEndGame:
		return true
	}
	return false
}

// Apply validates a command against role and phase and mutates the state.
// A rejected command leaves the state untouched.
func (s *State) Apply(cmd Command, now time.Time) ([]Event, error) {
	if isHostCommand(cmd.Type) && cmd.Role != RoleHost {
		return nil, fmt.Errorf("%w: host-only command", ErrUnauthorized)
	}

	switch cmd.Type {
	case CmdPlaceResource:
		if cmd.Role != RolePlayer {
			return nil, fmt.Errorf("%w: only players place resources", ErrUnauthorized)
		}
		return nil, s.PlaceResource(cmd.TeamID, cmd.CellID, cmd.Amount)

	case CmdRemoveResource:
		if cmd.Role != RolePlayer {
			return nil, fmt.Errorf("%w: only players place resources", ErrUnauthorized)
		}
		return nil, s.RemoveResource(cmd.TeamID, cmd.CellID, cmd.Amount)

	case CmdSubmitTurn:
		if cmd.Role != RolePlayer {
			return nil, fmt.Errorf("%w: only players submit", ErrUnauthorized)
		}
		if err := s.SubmitTurn(cmd.TeamID); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtTeamSubmitted, TeamID: cmd.TeamID}}, nil

	case CmdHostStartGame:
		if err := s.StartGame(cmd.FillBots, now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtPhaseStarted, Phase: PhaseEvent}}, nil

	case CmdHostPauseGame:
		return nil, s.Pause(now)

	case CmdHostResumeGame:
		if err := s.Resume(now); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtPhaseStarted, Phase: s.CurrentPhase}}, nil

	case CmdHostSkipPhase:
		return s.AdvancePhase(now)

	case CmdHostExtendTime:
		return nil, s.ExtendTime(cmd.Seconds)

	case CmdHostKickTeam:
		return nil, s.KickTeam(cmd.TargetID)

	case CmdHostEndGame:
		if err := s.EndEarly(); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtGameOver, GameOver: s.GameOver}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Type)
}
