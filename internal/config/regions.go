package config

// RegionID is a team's fixed identity within a room.
type RegionID string

const (
	RegionThuDo     RegionID = "thu-do"
	RegionDuyenHai  RegionID = "duyen-hai"
	RegionTayNguyen RegionID = "tay-nguyen"
	RegionDongBang  RegionID = "dong-bang"
	RegionMienDong  RegionID = "mien-dong"
)

type Region struct {
	ID          RegionID    `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Specialties []IndexName `json:"specialties"`
}

// Regions lists the five playable regions in team-index order. A team
// scores a specialization bonus on cells whose indices intersect its
// region's specialties.
var Regions = []Region{
	{
		ID:          RegionThuDo,
		Name:        "Thủ đô",
		Description: "Trung tâm chính trị, văn hóa (Hà Nội, Hải Phòng, Quảng Ninh)",
		Specialties: []IndexName{IndexCulture, IndexScience},
	},
	{
		ID:          RegionDuyenHai,
		Name:        "Duyên hải",
		Description: "Ven biển miền Trung (Đà Nẵng, Quảng Nam, Bình Định)",
		Specialties: []IndexName{IndexIntegration, IndexEnvironment},
	},
	{
		ID:          RegionTayNguyen,
		Name:        "Tây Nguyên",
		Description: "Cao nguyên, nông lâm nghiệp (Đắk Lắk, Gia Lai, Kon Tum)",
		Specialties: []IndexName{IndexEnvironment, IndexSociety},
	},
	{
		ID:          RegionDongBang,
		Name:        "Đồng bằng",
		Description: "Vựa lúa quốc gia (Cần Thơ, An Giang, Đồng Tháp)",
		Specialties: []IndexName{IndexSociety, IndexEconomy},
	},
	{
		ID:          RegionMienDong,
		Name:        "Miền Đông",
		Description: "Công nghiệp, kinh tế trọng điểm (TP.HCM, Bình Dương, Đồng Nai)",
		Specialties: []IndexName{IndexEconomy, IndexScience},
	},
}

// RegionByIndex maps a team index (0..4) to its region.
func RegionByIndex(i int) (Region, bool) {
	if i < 0 || i >= len(Regions) {
		return Region{}, false
	}
	return Regions[i], true
}
