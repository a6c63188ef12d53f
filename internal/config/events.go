package config

// TurnEvent is the scripted historical event for one turn. MinTotal and
// MinTeams here are the unscaled base thresholds; the engine scales them
// against the number of active teams when the turn starts.
type TurnEvent struct {
	Turn           int               `json:"turn"`
	Year           int               `json:"year"`
	Name           string            `json:"name"`
	Project        string            `json:"project"`
	MinTotal       int               `json:"minTotal"`
	MinTeams       int               `json:"minTeams"`
	SuccessPoints  int               `json:"successPoints"`
	SuccessReward  map[IndexName]int `json:"successReward"`
	FailurePenalty map[IndexName]int `json:"failurePenalty"`
}

var turnEvents = map[int]TurnEvent{
	1: {
		Turn: 1, Year: 1986,
		Name:    "Khủng hoảng lạm phát 774%",
		Project: "Nghị quyết Khoán 10",
		MinTotal: 20, MinTeams: 3, SuccessPoints: 8,
		SuccessReward:  map[IndexName]int{IndexEconomy: 4, IndexSociety: 3},
		FailurePenalty: map[IndexName]int{IndexEconomy: -4, IndexSociety: -3},
	},
	2: {
		Turn: 2, Year: 1987,
		Name:    "Cấm vận quốc tế bóp nghẹt",
		Project: "Luật Đầu tư Nước ngoài",
		MinTotal: 21, MinTeams: 3, SuccessPoints: 10,
		SuccessReward:  map[IndexName]int{IndexIntegration: 5, IndexEconomy: 3},
		FailurePenalty: map[IndexName]int{IndexIntegration: -4, IndexEconomy: -3},
	},
	3: {
		Turn: 3, Year: 1991,
		Name:    "Liên Xô sụp đổ, viện trợ chấm dứt",
		Project: "Tự lực cánh sinh",
		MinTotal: 22, MinTeams: 3, SuccessPoints: 12,
		SuccessReward:  map[IndexName]int{IndexScience: 4, IndexEconomy: 4},
		FailurePenalty: map[IndexName]int{IndexEconomy: -4, IndexScience: -3},
	},
	4: {
		Turn: 4, Year: 1993,
		Name:    "Thiên tai lũ lụt miền Trung",
		Project: "Cứu trợ quốc gia",
		MinTotal: 23, MinTeams: 3, SuccessPoints: 12,
		SuccessReward:  map[IndexName]int{IndexEnvironment: 5, IndexSociety: 3},
		FailurePenalty: map[IndexName]int{IndexEnvironment: -4, IndexSociety: -3},
	},
	5: {
		Turn: 5, Year: 1994,
		Name:    "Áp lực mở cửa kinh tế",
		Project: "Mỹ dỡ bỏ cấm vận",
		MinTotal: 24, MinTeams: 3, SuccessPoints: 14,
		SuccessReward:  map[IndexName]int{IndexIntegration: 4, IndexEconomy: 4},
		FailurePenalty: map[IndexName]int{IndexIntegration: -4, IndexEconomy: -3},
	},
	6: {
		Turn: 6, Year: 1995,
		Name:    "Hội nhập khu vực",
		Project: "Gia nhập ASEAN",
		MinTotal: 25, MinTeams: 3, SuccessPoints: 14,
		SuccessReward:  map[IndexName]int{IndexIntegration: 5, IndexCulture: 3},
		FailurePenalty: map[IndexName]int{IndexIntegration: -5, IndexCulture: -4},
	},
	7: {
		Turn: 7, Year: 2000,
		Name:    "Cạnh tranh toàn cầu hóa",
		Project: "Hiệp định Thương mại Việt-Mỹ",
		MinTotal: 26, MinTeams: 3, SuccessPoints: 16,
		SuccessReward:  map[IndexName]int{IndexEconomy: 5, IndexScience: 3},
		FailurePenalty: map[IndexName]int{IndexEconomy: -5, IndexScience: -4},
	},
	8: {
		Turn: 8, Year: 2007,
		Name:    "Hội nhập sâu rộng",
		Project: "Gia nhập WTO",
		MinTotal: 28, MinTeams: 4, SuccessPoints: 20,
		SuccessReward: map[IndexName]int{
			IndexEconomy: 3, IndexSociety: 3, IndexCulture: 3,
			IndexIntegration: 3, IndexEnvironment: 3, IndexScience: 3,
		},
		FailurePenalty: map[IndexName]int{
			IndexEconomy: -5, IndexSociety: -5, IndexCulture: -5,
			IndexIntegration: -5, IndexEnvironment: -5, IndexScience: -5,
		},
	},
}

// EventByTurn returns the scripted event for a turn, if one exists.
func EventByTurn(turn int) (TurnEvent, bool) {
	e, ok := turnEvents[turn]
	return e, ok
}
