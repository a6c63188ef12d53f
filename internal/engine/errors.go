package engine

import "errors"

// The four rejection classes every command can fail with. Callers match
// with errors.Is; the wire layer maps them to error codes via ErrorCode.
var (
	ErrStructural     = errors.New("malformed command")
	ErrPhaseViolation = errors.New("command not valid in current phase")
	ErrUnauthorized   = errors.New("not authorized")
	ErrCapacity       = errors.New("capacity exceeded")
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrGameFinished       = errors.New("game already finished")
	ErrGamePaused         = errors.New("game is paused")
	ErrNotStarted         = errors.New("game not started")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// ErrorCode maps an engine error to the code carried on ERROR messages.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPhaseViolation):
		return "PHASE_VIOLATION"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrCapacity):
		return "CAPACITY"
	case errors.Is(err, ErrTeamNotFound):
		return "TEAM_NOT_FOUND"
	default:
		return "STRUCTURAL"
	}
}
