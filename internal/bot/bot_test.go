package bot

import (
	"testing"
	"time"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
)

func botState(t *testing.T) *engine.State {
	t.Helper()
	s := engine.NewState("123456", "Cô Lan", time.Now())
	if err := s.StartGame(true, time.Now()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestPlanStaysWithinAllowance(t *testing.T) {
	s := botState(t)
	for _, team := range s.Teams {
		plan := Plan(s, team)
		total := 0
		for cellID, rp := range plan {
			if rp <= 0 {
				t.Fatalf("non-positive allocation %d on %s", rp, cellID)
			}
			if !config.ValidCellID(cellID) {
				t.Fatalf("plan targets unknown cell %s", cellID)
			}
			total += rp
		}
		if total > team.Allowance() {
			t.Fatalf("plan spends %d with allowance %d", total, team.Allowance())
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	s := botState(t)
	team := s.Teams[2]
	first := Plan(s, team)
	for i := 0; i < 5; i++ {
		again := Plan(s, team)
		if len(again) != len(first) {
			t.Fatalf("plan changed between runs: %v vs %v", first, again)
		}
		for cellID, rp := range first {
			if again[cellID] != rp {
				t.Fatalf("plan changed on %s: %d vs %d", cellID, rp, again[cellID])
			}
		}
	}
}

func TestPlanVariesAcrossTeams(t *testing.T) {
	s := botState(t)
	a := Plan(s, s.Teams[0])
	b := Plan(s, s.Teams[1])

	same := len(a) == len(b)
	if same {
		for cellID, rp := range a {
			if b[cellID] != rp {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatalf("expected different teams to plan differently: %v", a)
	}
}

func TestPlanPrioritizesProjectWhenIndexLow(t *testing.T) {
	s := botState(t)
	team := s.Teams[0]

	normal := Plan(s, team)[config.ProjectCellID]

	s.Indices[config.IndexCulture] = config.SurvivalWarningThreshold
	urgent := Plan(s, team)[config.ProjectCellID]

	if urgent <= normal {
		t.Fatalf("want a larger project share under a survival warning: %d vs %d", urgent, normal)
	}
}

func TestPlanAlwaysFundsTheProject(t *testing.T) {
	s := botState(t)
	for _, team := range s.Teams {
		if Plan(s, team)[config.ProjectCellID] == 0 {
			t.Fatalf("team %d plan skips the project", team.Index)
		}
	}
}
