package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestState(3)
	mustStart(t, s, false)
	mustAdvance(t, s, t0)
	require.NoError(t, s.PlaceResource(s.Teams[0].ID, "cell-1-3", 4))
	require.NoError(t, s.PlaceResource(s.Teams[1].ID, config.ProjectCellID, 5))
	mustAdvance(t, s, t0)
	mustAdvance(t, s, t0) // resolve turn 1

	data, err := MarshalSnapshot(s)
	require.NoError(t, err)

	restored, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	require.Equal(t, s.RoomCode, restored.RoomCode)
	require.Equal(t, s.Status, restored.Status)
	require.Equal(t, s.CurrentTurn, restored.CurrentTurn)
	require.Equal(t, s.CurrentPhase, restored.CurrentPhase)
	require.Equal(t, s.Indices, restored.Indices)
	require.Equal(t, len(s.Teams), len(restored.Teams))
	require.Equal(t, s.Teams[0].Points, restored.Teams[0].Points)
	require.Equal(t, s.Teams[0].SessionToken, restored.Teams[0].SessionToken)
	require.Equal(t, len(s.History), len(restored.History))
	require.Equal(t, s.Event.MinTotal, restored.Event.MinTotal)

	// the restored state keeps playing
	_, err = restored.AdvancePhase(t0)
	require.NoError(t, err)
	require.Equal(t, 2, restored.CurrentTurn)
}

func TestBuildExport(t *testing.T) {
	s := newTestState(3)
	mustStart(t, s, false)
	mustAdvance(t, s, t0)
	mustAdvance(t, s, t0)
	mustAdvance(t, s, t0) // one resolved turn on record

	doc := BuildExport(s, t0)

	require.Equal(t, s.RoomCode, doc.RoomCode)
	require.Equal(t, StatusPlaying, doc.Status)
	require.Equal(t, t0, doc.ExportedAt)
	require.Len(t, doc.TurnHistory, 1)
	require.Nil(t, doc.GameOver)

	require.Equal(t, config.MaxTurns, doc.Config.MaxTurns)
	require.Equal(t, config.ResourcesPerTurn, doc.Config.ResourcesPerTurn)
	require.Equal(t, config.ActiveSharedScoring, doc.Config.SharedScoring)
	require.NotEmpty(t, doc.Config.Formulas[config.CellCooperation])

	// the exported indices are a copy, not a live reference
	doc.FinalIndices[config.IndexEconomy] = 0
	require.NotEqual(t, 0, s.Indices[config.IndexEconomy])
}

func TestBuildExportFinishedGame(t *testing.T) {
	s := newTestState(3)
	mustStart(t, s, false)
	require.NoError(t, s.EndEarly())

	doc := BuildExport(s, t0)
	require.Equal(t, StatusFinished, doc.Status)
	require.NotNil(t, doc.GameOver)
	require.Equal(t, ReasonHostEnded, doc.GameOver.Reason)
}
