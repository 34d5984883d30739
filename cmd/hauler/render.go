package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hauler/internal"
	"hauler/internal/route"
	"hauler/internal/session"
	"hauler/internal/util"
)

const cellWidth = 28

var (
	heading = lipgloss.NewStyle().Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	done    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	empty   = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Width(cellWidth)
)

func printMissions(s *session.Session) {
	for i, m := range s.Missions {
		fmt.Printf("%d. %s payout=%s\n", i+1, m.ID, m.Payout)
		for _, c := range m.Commodities {
			fmt.Printf("   %s  %d SCU %s  %s -> %s  max=%d\n", c.ID, c.Quantity, c.Commodity, c.Pickup, c.Destination, c.MaxBoxSize)
		}
	}
	fmt.Printf("missions=%d scu=%d payout=%s\n", len(s.Missions), s.TotalSCU(), util.FormatPayoutShorthand(s.TotalPayout()))
}

// renderRoute lists stops with their items and the box split for each.
func renderRoute(d *route.DeliveryState, stops []internal.RouteStop) string {
	var b strings.Builder
	b.WriteString(heading.Render(fmt.Sprintf("Route (%s)", d.RouteViewMode)))
	b.WriteString("\n")
	for _, stop := range stops {
		line := fmt.Sprintf("[%s] %s %s", stop.ID, strings.ToUpper(string(stop.Type)), stop.Location)
		if d.RouteStepCompletion[stop.ID] {
			line = done.Render(line)
		} else if stop.Type == internal.StopDelivery {
			if g, ok := d.CargoGroups[stop.Location]; ok {
				line = swatch(g.Color) + " " + line
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
		for _, item := range stop.Items {
			b.WriteString(fmt.Sprintf("    %d SCU %s (%s) %s\n", item.Quantity, item.Commodity, item.MissionID, dim.Render(boxSummary(item.Quantity, item.MaxBoxSize))))
		}
	}
	return b.String()
}

// renderGrid draws the cargo grid row by row; each occupied cell is bordered
// in its group colour.
func renderGrid(d *route.DeliveryState) string {
	cells := d.GridCells()
	cols := d.CargoGridLayout.Cols
	if cols <= 0 {
		cols = route.DefaultGridLayout.Cols
	}

	rows := []string{}
	for start := 0; start < len(cells); start += cols {
		end := start + cols
		if end > len(cells) {
			end = len(cells)
		}
		boxes := make([]string, 0, cols)
		for i := start; i < end; i++ {
			boxes = append(boxes, renderCell(d, i, cells[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return heading.Render(fmt.Sprintf("Cargo grid %dx%d", d.CargoGridLayout.Cols, d.CargoGridLayout.Rows)) + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func renderCell(d *route.DeliveryState, index int, location string) string {
	if location == "" {
		return empty.Render(dim.Render(fmt.Sprintf("%d empty", index)))
	}
	group := d.CargoGroups[location]
	lines := []string{fmt.Sprintf("%d %s", index, heading.Render(group.Label))}
	total := 0
	for _, item := range group.Items {
		lines = append(lines, fmt.Sprintf("%d %s", item.Quantity, item.Commodity))
		total += item.Quantity
	}
	lines = append(lines, dim.Render(fmt.Sprintf("%d SCU", total)))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(group.Color)).
		Width(cellWidth).
		Render(strings.Join(lines, "\n"))
}

func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

// boxSummary reads like "2x8 1x2", plus the SCU no allowed box fits.
func boxSummary(quantity, maxBox int) string {
	boxes := util.BreakdownIntoBoxes(quantity, maxBox)
	sizes := make([]int, 0, len(boxes))
	for size := range boxes {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	parts := make([]string, 0, len(sizes)+1)
	for _, size := range sizes {
		parts = append(parts, fmt.Sprintf("%dx%d", boxes[size], size))
	}
	if left := util.BoxLeftover(quantity, maxBox); left > 0 {
		parts = append(parts, fmt.Sprintf("+%d loose", left))
	}
	return strings.Join(parts, " ")
}
