package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hauler/internal"
	"hauler/internal/session"
	"hauler/internal/util"
)

const ExportVersion = "4.0.0"

var exportHeaders = []string{"Mission", "Payout", "Commodity", "Pickup", "Quantity", "Max Box", "Destination"}

type exportMetadata struct {
	ExportDate string  `json:"exportDate"`
	Version    string  `json:"version"`
	Ship       *string `json:"ship"`
	System     string  `json:"system"`
	Category   string  `json:"category"`
}

type exportCommodity struct {
	Commodity   string `json:"commodity"`
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	Quantity    int    `json:"quantity"`
	MaxBoxSize  int    `json:"maxBoxSize"`
}

type exportMission struct {
	MissionNumber int               `json:"missionNumber"`
	MissionID     string            `json:"missionId"`
	Payout        string            `json:"payout"`
	Commodities   []exportCommodity `json:"commodities"`
}

type exportDocument struct {
	Metadata exportMetadata  `json:"metadata"`
	Missions []exportMission `json:"missions"`
}

func ExportJSON(s *session.Session, now time.Time) ([]byte, error) {
	doc := exportDocument{
		Metadata: exportMetadata{
			ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
			Version:    ExportVersion,
			Ship:       s.SelectedShipID,
			System:     s.SelectedSystem,
			Category:   s.SelectedCategory,
		},
		Missions: make([]exportMission, 0, len(s.Missions)),
	}
	for i, m := range s.Missions {
		em := exportMission{MissionNumber: i + 1, MissionID: m.ID, Payout: m.Payout, Commodities: make([]exportCommodity, 0, len(m.Commodities))}
		for _, c := range m.Commodities {
			em.Commodities = append(em.Commodities, exportCommodity{
				Commodity:   c.Commodity,
				Pickup:      c.Pickup,
				Destination: c.Destination,
				Quantity:    c.Quantity,
				MaxBoxSize:  c.MaxBoxSize,
			})
		}
		doc.Missions = append(doc.Missions, em)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportCSV writes one line per commodity row that names at least a
// commodity, pickup or destination. Text columns are always quoted.
func ExportCSV(missions []internal.Mission) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeaders, ","))
	b.WriteString("\n")
	for i, m := range missions {
		for _, c := range m.Commodities {
			if !exportable(c) {
				continue
			}
			fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%d,%s\n",
				i+1,
				m.Payout,
				quoteCSV(c.Commodity),
				quoteCSV(c.Pickup),
				blankZero(c.Quantity),
				maxBoxOrDefault(c.MaxBoxSize),
				quoteCSV(c.Destination),
			)
		}
	}
	return b.String()
}

func ExportXLSX(missions []internal.Mission, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for i, m := range missions {
		for _, c := range m.Commodities {
			if !exportable(c) {
				continue
			}
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}
			set(1, i+1)
			set(2, m.Payout)
			set(3, c.Commodity)
			set(4, c.Pickup)
			set(5, c.Quantity)
			set(6, maxBoxOrDefault(c.MaxBoxSize))
			set(7, c.Destination)
			r++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ImportXLSX reads a sheet in the export layout back into missions, one per
// distinct Mission number, in first-seen order. Rows come back without ids.
func ImportXLSX(path string) ([]internal.Mission, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[util.FoldKey(h)] = i
	}
	for _, h := range exportHeaders {
		if _, ok := col[util.FoldKey(h)]; !ok {
			return nil, fmt.Errorf("missing column %q in %s", h, path)
		}
	}
	cell := func(row []string, name string) string {
		idx := col[util.FoldKey(name)]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	order := []string{}
	byNumber := map[string]*internal.Mission{}
	for _, row := range rows[1:] {
		number := cell(row, "Mission")
		if number == "" {
			continue
		}
		m, ok := byNumber[number]
		if !ok {
			m = &internal.Mission{Payout: cell(row, "Payout")}
			byNumber[number] = m
			order = append(order, number)
		}
		qty, _ := strconv.Atoi(cell(row, "Quantity"))
		maxBox, err := strconv.Atoi(cell(row, "Max Box"))
		if err != nil || !util.IsBoxSize(maxBox) {
			maxBox = internal.DefaultMaxBoxSize
		}
		m.Commodities = append(m.Commodities, internal.CommodityRow{
			Commodity:   cell(row, "Commodity"),
			Pickup:      cell(row, "Pickup"),
			Destination: cell(row, "Destination"),
			Quantity:    qty,
			MaxBoxSize:  maxBox,
		})
	}

	out := make([]internal.Mission, 0, len(order))
	for _, number := range order {
		out = append(out, *byNumber[number])
	}
	return out, nil
}

// ExportFilename is "hauler-helper-<ship or session>-<yyyy-mm-dd>.<ext>".
func ExportFilename(ship *string, ext string, now time.Time) string {
	name := "session"
	if ship != nil && *ship != "" {
		name = *ship
	}
	return fmt.Sprintf("hauler-helper-%s-%s.%s", name, now.UTC().Format("2006-01-02"), ext)
}

func exportable(c internal.CommodityRow) bool {
	return c.Commodity != "" || c.Pickup != "" || c.Destination != ""
}

func quoteCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func maxBoxOrDefault(n int) int {
	if n == 0 {
		return internal.DefaultMaxBoxSize
	}
	return n
}
