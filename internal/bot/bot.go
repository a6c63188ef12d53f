// Package bot plans resource allocations for AI-controlled teams. The
// heuristic follows the tuned simulation agent: a project-first split
// with the remainder spread between competitive and cooperative play,
// shifting toward cooperation when behind and toward the project when a
// national index runs low.
package bot

import (
	"math/rand"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
)

// Plan distributes the team's full allowance across board cells for the
// current turn. Seeded per room, turn and team so replays of the same
// state produce the same allocation.
func Plan(s *engine.State, t *engine.Team) map[string]int {
	seed := int64(s.CurrentTurn)<<8 + int64(t.Index)
	for _, c := range s.RoomCode {
		seed = seed*31 + int64(c)
	}
	rng := rand.New(rand.NewSource(seed))

	resources := t.Allowance()

	projectPct := 0.35
	minIndex := config.IndexMax
	for _, name := range config.IndexNames {
		if v := s.Indices[name]; v < minIndex {
			minIndex = v
		}
	}
	if minIndex <= config.SurvivalWarningThreshold {
		projectPct = 0.55
	}

	var avg float64
	for _, other := range s.Teams {
		avg += other.Points
	}
	avg /= float64(len(s.Teams))
	cooperative := 0.5 + rng.Float64()*0.2
	if t.Points < avg*0.85 {
		cooperative += 0.15
	}

	project := int(float64(resources) * projectPct)
	remaining := resources - project
	competitive := int(float64(remaining) * (1 - cooperative))
	coop := remaining - competitive

	plan := map[string]int{}
	if project > 0 {
		plan[config.ProjectCellID] = project
	}
	spread(plan, pickCells(config.CellCompetitive, 2, rng), competitive)
	spread(plan, pickCells(config.CellSynergy, 2, rng), (coop+1)/2)
	spread(plan, pickCells(config.CellCooperation, 2, rng), coop/2)
	return plan
}

func pickCells(cellType config.CellType, n int, rng *rand.Rand) []string {
	var ids []string
	for _, c := range config.Board {
		if c.Type == cellType {
			ids = append(ids, c.ID)
		}
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func spread(plan map[string]int, cells []string, total int) {
	if total <= 0 || len(cells) == 0 {
		return
	}
	per := total / len(cells)
	rem := total % len(cells)
	for i, id := range cells {
		rp := per
		if i < rem {
			rp++
		}
		if rp > 0 {
			plan[id] += rp
		}
	}
}
