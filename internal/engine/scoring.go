package engine

import "github.com/Keithsel/kien-quoc-sub001/internal/config"

// TeamScoringContext carries the per-team inputs the resolver needs
// beyond raw placements. The resolver itself holds no state.
type TeamScoringContext struct {
	Specialties  map[config.IndexName]bool
	UnderdogTier int
}

// ScoreResult is the resolver output: per-team point deltas, the per-cell
// breakdown published to clients, and the zone boosts owed to the ledger.
type ScoreResult struct {
	TeamPoints map[string]float64
	CellScores map[string]map[string]float64
	ZoneBoosts map[config.IndexName]int
}

// ResolveScores turns one turn's placements into team point deltas and
// index boosts. Deterministic and free of I/O: identical inputs always
// produce identical output. Placements map teamID -> cellID -> RP and
// include the project pool; the project success reward is evaluated at
// the aggregate level elsewhere, only the per-RP base is scored here.
func ResolveScores(placements map[string]map[string]int, contexts map[string]TeamScoringContext) ScoreResult {
	res := ScoreResult{
		TeamPoints: map[string]float64{},
		CellScores: map[string]map[string]float64{},
		ZoneBoosts: map[config.IndexName]int{},
	}

	for _, cell := range config.Board {
		rps := placementsOn(placements, cell.ID)
		if len(rps) == 0 {
			continue
		}

		base := scoreCell(cell.Type, rps)
		scored := map[string]float64{}
		for teamID, pts := range base {
			scored[teamID] = applyModifiers(pts, cell.Indices, contexts[teamID])
			res.TeamPoints[teamID] += scored[teamID]
		}
		res.CellScores[cell.ID] = scored

		total := 0
		for _, rp := range rps {
			total += rp
		}
		if total >= config.IndexBoostDivisor {
			for _, name := range cell.Indices {
				res.ZoneBoosts[name] += total / config.IndexBoostDivisor
			}
		}
	}

	// Project base: every contribution earns its per-RP value. The
	// project pool has no associated indices, so only the underdog
	// modifier can apply.
	if rps := placementsOn(placements, config.ProjectCellID); len(rps) > 0 {
		scored := map[string]float64{}
		for teamID, rp := range rps {
			pts := applyModifiers(float64(rp)*config.ProjectMultiplier, nil, contexts[teamID])
			scored[teamID] = pts
			res.TeamPoints[teamID] += pts
		}
		res.CellScores[config.ProjectCellID] = scored
	}

	return res
}

func placementsOn(placements map[string]map[string]int, cellID string) map[string]int {
	out := map[string]int{}
	for teamID, cells := range placements {
		if rp := cells[cellID]; rp > 0 {
			out[teamID] = rp
		}
	}
	return out
}

func scoreCell(cellType config.CellType, rps map[string]int) map[string]float64 {
	multiplier := config.CellMultipliers[cellType]
	switch cellType {
	case config.CellCompetitive:
		return scoreCompetitive(rps, multiplier)
	case config.CellSynergy:
		return scoreSynergy(rps, multiplier)
	case config.CellShared:
		if config.ActiveSharedScoring == config.SharedIndependent {
			return scoreIndependent(rps, multiplier)
		}
		return scoreShared(rps, multiplier)
	case config.CellCooperation:
		return scoreCooperation(rps, multiplier)
	default:
		return map[string]float64{}
	}
}

// scoreCompetitive: strict-maximum teams split maxRP x multiplier evenly;
// everyone else keeps cellRP x loser multiplier. A lone participant gets
// the solo penalty in place of the normal multiplier.
func scoreCompetitive(rps map[string]int, multiplier float64) map[string]float64 {
	scores := map[string]float64{}
	if len(rps) == 1 {
		for teamID, rp := range rps {
			scores[teamID] = float64(rp) * config.SoloPenaltyCompetitive
		}
		return scores
	}

	maxRP := 0
	for _, rp := range rps {
		if rp > maxRP {
			maxRP = rp
		}
	}
	winners := 0
	for _, rp := range rps {
		if rp == maxRP {
			winners++
		}
	}
	pool := float64(maxRP) * multiplier
	for teamID, rp := range rps {
		if rp == maxRP {
			scores[teamID] = pool / float64(winners)
		} else {
			scores[teamID] = float64(rp) * config.CompetitiveLoserMultiplier
		}
	}
	return scores
}

// scoreSynergy: participation scales the payout; solo play forfeits the
// scaling bonus and takes the penalty factor instead.
func scoreSynergy(rps map[string]int, multiplier float64) map[string]float64 {
	scores := map[string]float64{}
	n := len(rps)
	if n == 1 {
		for teamID, rp := range rps {
			scores[teamID] = float64(rp) * multiplier * config.SoloPenaltySynergy
		}
		return scores
	}
	extra := n - config.SynergyFreeParticipants
	if extra < 0 {
		extra = 0
	}
	factor := config.SynergyBase + config.SynergyScaling*float64(extra)
	for teamID, rp := range rps {
		scores[teamID] = float64(rp) * multiplier * factor
	}
	return scores
}

// scoreShared: the pooled total is redistributed in proportion to each
// team's stake.
func scoreShared(rps map[string]int, multiplier float64) map[string]float64 {
	scores := map[string]float64{}
	total := 0
	for _, rp := range rps {
		total += rp
	}
	if total == 0 {
		return scores
	}
	pool := float64(total) * multiplier
	for teamID, rp := range rps {
		scores[teamID] = float64(rp) / float64(total) * pool
	}
	return scores
}

// scoreIndependent: each team scores alone, no participant interaction.
func scoreIndependent(rps map[string]int, multiplier float64) map[string]float64 {
	scores := map[string]float64{}
	for teamID, rp := range rps {
		scores[teamID] = float64(rp) * multiplier
	}
	return scores
}

// scoreCooperation: pays out only when enough teams commit; a solo
// participant scores at the bare penalty rate, without the multiplier.
func scoreCooperation(rps map[string]int, multiplier float64) map[string]float64 {
	scores := map[string]float64{}
	if len(rps) >= config.CooperationMinTeams {
		for teamID, rp := range rps {
			scores[teamID] = float64(rp) * multiplier
		}
		return scores
	}
	for teamID, rp := range rps {
		scores[teamID] = float64(rp) * config.SoloPenaltyCooperation
	}
	return scores
}

// applyModifiers layers the multiplicative bonuses onto a cell-level
// score: region specialization when the cell touches a specialty index,
// and the tier-2 underdog multiplier.
func applyModifiers(pts float64, cellIndices []config.IndexName, ctx TeamScoringContext) float64 {
	for _, name := range cellIndices {
		if ctx.Specialties[name] {
			pts *= config.RegionSpecializationMultiplier
			break
		}
	}
	if ctx.UnderdogTier >= 2 {
		pts *= config.UnderdogMultiplierTier2
	}
	return pts
}
