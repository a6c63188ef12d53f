package config

// CellType classifies how a board cell scores the resources placed on it.
type CellType string

const (
	CellCompetitive CellType = "competitive"
	CellSynergy     CellType = "synergy"
	CellShared      CellType = "shared"
	CellCooperation CellType = "cooperation"
	CellProject     CellType = "project"
)

// SharedScoringMode selects which of the two shared-cell formulas is in
// effect. The offline and online rule sets diverged here: "independent"
// scores each team alone, "proportional" redistributes the pooled total.
// They are kept as distinct named strategies rather than merged.
type SharedScoringMode string

const (
	SharedProportional SharedScoringMode = "proportional"
	SharedIndependent  SharedScoringMode = "independent"
)

// ActiveSharedScoring follows the online rule set.
const ActiveSharedScoring = SharedProportional

// CellMultipliers are the base per-type multipliers.
var CellMultipliers = map[CellType]float64{
	CellCompetitive: 1.5,
	CellSynergy:     1.8,
	CellShared:      1.5,
	CellCooperation: 2.5,
	CellProject:     1.0,
}

const (
	CompetitiveLoserMultiplier = 0.5
	SoloPenaltyCompetitive     = 0.5
	SoloPenaltySynergy         = 0.5
	SoloPenaltyCooperation     = 0.5

	// Synergy bonus grows with participation: base + scaling per
	// participant beyond the free count. Two teams -> 1.25x, five -> 2.0x.
	SynergyBase             = 1.0
	SynergyScaling          = 0.25
	SynergyFreeParticipants = 1

	CooperationMinTeams = 2

	// Project contributions score per RP; the success reward is handled
	// at the aggregate project level, not per cell.
	ProjectMultiplier = 1.0

	RegionSpecializationMultiplier = 1.2

	// Zone boost: a cell's associated indices gain one point per
	// IndexBoostDivisor RP placed on it in total.
	IndexBoostDivisor = 8
)

// Underdog catch-up mechanic. Teams in the bottom UnderdogThreshold
// fraction by points gain extra RP from tier 1 and, from tier 2, a score
// multiplier as well.
const (
	UnderdogThreshold       = 0.4
	UnderdogStartTurnTier1  = 3
	UnderdogStartTurnTier2  = 6
	UnderdogBonusRPTier1    = 2
	UnderdogBonusRPTier2    = 3
	UnderdogMultiplierTier2 = 1.25
)

// FormulaDescriptions are the human-readable scoring rules included in
// the export artifact.
var FormulaDescriptions = map[CellType]string{
	CellCompetitive: "highest placement wins cellRP_max x 1.5 (ties split); losers score cellRP x 0.5; solo placement scores cellRP x 0.5",
	CellSynergy:     "each participant scores cellRP x 1.8 x (1.0 + 0.25 x extra participants); solo placement scores cellRP x 1.8 x 0.5",
	CellShared:      "pool of totalRP x 1.5 redistributed in proportion to each team's placement",
	CellCooperation: "with 2+ teams each scores cellRP x 2.5; solo placement scores cellRP x 0.5",
	CellProject:     "each contribution scores cellRP x 1.0; success reward evaluated on the pooled total",
}
