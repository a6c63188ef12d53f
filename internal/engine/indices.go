package engine

import "github.com/Keithsel/kien-quoc-sub001/internal/config"

// Indices holds the six bounded national indices.
type Indices map[config.IndexName]int

func NewIndices() Indices {
	ind := make(Indices, len(config.IndexNames))
	for _, name := range config.IndexNames {
		ind[name] = config.StartingIndexValue
	}
	return ind
}

func (ind Indices) Clone() Indices {
	out := make(Indices, len(ind))
	for k, v := range ind {
		out[k] = v
	}
	return out
}

// FirstAtMin returns the first collapsed index in canonical order, so the
// reported cause is stable when several collapse at once.
func (ind Indices) FirstAtMin() (config.IndexName, bool) {
	for _, name := range config.IndexNames {
		if ind[name] <= config.IndexMin {
			return name, true
		}
	}
	return "", false
}

func clampIndex(v int) int {
	if v < config.IndexMin {
		return config.IndexMin
	}
	if v > config.IndexMax {
		return config.IndexMax
	}
	return v
}

// settleIndices applies one turn's worth of index movement in the fixed
// order: maintenance decay, then the project reward or penalty, then zone
// boosts, then a single clamp. Decay goes first so the outcome never
// depends on how a reward interleaves with the same turn's upkeep.
// Returns the net per-index change and the collapsed index, if any.
func settleIndices(ind Indices, projectDelta map[config.IndexName]int, boosts map[config.IndexName]int) (map[config.IndexName]int, config.IndexName, bool) {
	before := ind.Clone()

	for _, name := range config.IndexNames {
		ind[name] -= config.MaintenanceCost
	}
	for name, delta := range projectDelta {
		if config.ValidIndexName(name) {
			ind[name] += delta
		}
	}
	for name, delta := range boosts {
		if config.ValidIndexName(name) {
			ind[name] += delta
		}
	}
	for _, name := range config.IndexNames {
		ind[name] = clampIndex(ind[name])
	}

	changes := make(map[config.IndexName]int, len(config.IndexNames))
	for _, name := range config.IndexNames {
		changes[name] = ind[name] - before[name]
	}

	collapsed, ok := ind.FirstAtMin()
	return changes, collapsed, ok
}
