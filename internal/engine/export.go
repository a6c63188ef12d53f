package engine

import (
	"encoding/json"
	"time"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
)

// ExportConfig freezes the scoring constants and human-readable formulas
// into the export artifact so a finished game can be audited against the
// rules it was played under.
type ExportConfig struct {
	MaxTurns         int                         `json:"maxTurns"`
	ResourcesPerTurn int                         `json:"resourcesPerTurn"`
	IndexMin         int                         `json:"indexMin"`
	IndexMax         int                         `json:"indexMax"`
	MaintenanceCost  int                         `json:"maintenanceCost"`
	CellMultipliers  map[config.CellType]float64 `json:"cellMultipliers"`
	Formulas         map[config.CellType]string  `json:"formulas"`
	SharedScoring    config.SharedScoringMode    `json:"sharedScoring"`
}

// ExportDocument is the read-only projection of a room: configuration,
// per-turn history, final ranking and indices. It is produced on demand
// and is never a control input.
type ExportDocument struct {
	ExportedAt   time.Time          `json:"exportedAt"`
	RoomCode     string             `json:"roomCode"`
	Status       Status             `json:"status"`
	Config       ExportConfig       `json:"config"`
	TurnHistory  []TurnHistoryEntry `json:"turnHistory"`
	GameOver     *GameOver          `json:"gameOver,omitempty"`
	FinalIndices Indices            `json:"finalIndices"`
}

// BuildExport projects the room state into its export artifact.
func BuildExport(s *State, now time.Time) ExportDocument {
	return ExportDocument{
		ExportedAt: now,
		RoomCode:   s.RoomCode,
		Status:     s.Status,
		Config: ExportConfig{
			MaxTurns:         config.MaxTurns,
			ResourcesPerTurn: config.ResourcesPerTurn,
			IndexMin:         config.IndexMin,
			IndexMax:         config.IndexMax,
			MaintenanceCost:  config.MaintenanceCost,
			CellMultipliers:  config.CellMultipliers,
			Formulas:         config.FormulaDescriptions,
			SharedScoring:    config.ActiveSharedScoring,
		},
		TurnHistory:  s.History,
		GameOver:     s.GameOver,
		FinalIndices: s.Indices.Clone(),
	}
}

// MarshalSnapshot serializes the full room state for local persistence.
func MarshalSnapshot(s *State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot restores a room state saved with MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
