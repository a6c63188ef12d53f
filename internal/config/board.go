package config

import "fmt"

// Cell is one immutable board position. The four project cells are
// aggregated behind ProjectCellID and never appear in Board.
type Cell struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Row     int         `json:"row"`
	Col     int         `json:"col"`
	Type    CellType    `json:"type"`
	Indices []IndexName `json:"indices"`
}

// ProjectCellID is the single placement target for the turn's national
// project; the four centre tiles pool into it.
const ProjectCellID = "project-center"

func cellID(row, col int) string {
	return fmt.Sprintf("cell-%d-%d", row, col)
}

// Board is the fixed 4x4 layout minus the four centre project tiles.
var Board = []Cell{
	{ID: cellID(0, 0), Name: "Cửa khẩu Lạng Sơn", Row: 0, Col: 0, Type: CellCooperation, Indices: []IndexName{IndexIntegration, IndexEconomy}},
	{ID: cellID(0, 1), Name: "Đại học Bách khoa", Row: 0, Col: 1, Type: CellSynergy, Indices: []IndexName{IndexScience, IndexSociety}},
	{ID: cellID(0, 2), Name: "Viện Hàn lâm", Row: 0, Col: 2, Type: CellSynergy, Indices: []IndexName{IndexScience, IndexCulture}},
	{ID: cellID(0, 3), Name: "Khu CN Việt Trì", Row: 0, Col: 3, Type: CellCompetitive, Indices: []IndexName{IndexEconomy, IndexEnvironment}},
	{ID: cellID(1, 0), Name: "Đồng bằng sông Hồng", Row: 1, Col: 0, Type: CellShared, Indices: []IndexName{IndexSociety, IndexEnvironment}},
	{ID: cellID(1, 3), Name: "Cảng Đà Nẵng", Row: 1, Col: 3, Type: CellCompetitive, Indices: []IndexName{IndexEconomy, IndexIntegration}},
	{ID: cellID(2, 0), Name: "Tây Nguyên", Row: 2, Col: 0, Type: CellSynergy, Indices: []IndexName{IndexEnvironment, IndexEconomy}},
	{ID: cellID(2, 3), Name: "KCX Tân Thuận", Row: 2, Col: 3, Type: CellCompetitive, Indices: []IndexName{IndexEconomy, IndexScience}},
	{ID: cellID(3, 0), Name: "Đồng bằng Cửu Long", Row: 3, Col: 0, Type: CellShared, Indices: []IndexName{IndexSociety, IndexEconomy}},
	{ID: cellID(3, 1), Name: "Khu đô thị Thủ Đức", Row: 3, Col: 1, Type: CellSynergy, Indices: []IndexName{IndexSociety, IndexScience}},
	{ID: cellID(3, 2), Name: "Trung tâm Tài chính", Row: 3, Col: 2, Type: CellCooperation, Indices: []IndexName{IndexEconomy, IndexIntegration}},
	{ID: cellID(3, 3), Name: "Cảng Sài Gòn", Row: 3, Col: 3, Type: CellCompetitive, Indices: []IndexName{IndexEconomy, IndexIntegration}},
}

var boardByID = func() map[string]Cell {
	m := make(map[string]Cell, len(Board))
	for _, c := range Board {
		m[c.ID] = c
	}
	return m
}()

// CellByID looks up a regular (non-project) cell.
func CellByID(id string) (Cell, bool) {
	c, ok := boardByID[id]
	return c, ok
}

// ValidCellID reports whether id is a placeable target, the project pool
// included.
func ValidCellID(id string) bool {
	if id == ProjectCellID {
		return true
	}
	_, ok := boardByID[id]
	return ok
}
