package config

import "time"

// Core balance parameters. These are fixed for the game's lifetime;
// tuning happens here, never at runtime.
const (
	MaxTurns         = 8
	ResourcesPerTurn = 14
	NumTeams         = 5
	MinTeamsToStart  = 3

	RoomCodeLength  = 6
	RoomCodeCharset = "0123456789"

	IndexMin           = 0
	IndexMax           = 30
	StartingIndexValue = 10
	MaintenanceCost    = 1 // per index, per turn

	SurvivalWarningThreshold = 6
)

// Phase durations.
const (
	PhaseEventDuration      = 15 * time.Second
	PhaseActionDuration     = 60 * time.Second
	PhaseResolutionDuration = 3 * time.Second
	PhaseResultDuration     = 15 * time.Second
)

// IndexName identifies one of the six national indices.
type IndexName string

const (
	IndexEconomy     IndexName = "economy"
	IndexSociety     IndexName = "society"
	IndexCulture     IndexName = "culture"
	IndexIntegration IndexName = "integration"
	IndexEnvironment IndexName = "environment"
	IndexScience     IndexName = "science"
)

// IndexNames is the canonical ordering used for display and iteration.
var IndexNames = []IndexName{
	IndexEconomy,
	IndexSociety,
	IndexCulture,
	IndexIntegration,
	IndexEnvironment,
	IndexScience,
}

func ValidIndexName(name IndexName) bool {
	for _, n := range IndexNames {
		if n == name {
			return true
		}
	}
	return false
}
