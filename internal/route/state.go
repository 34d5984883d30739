package route

import (
	"fmt"
	"regexp"

	"hauler/internal"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var DefaultGridLayout = internal.GridLayout{Cols: 2, Rows: 4}

type DeliveryState struct {
	RouteStops          []internal.RouteStop           `json:"routeStops"`
	RouteStepCompletion map[string]bool                `json:"routeStepCompletion"`
	RouteViewMode       internal.RouteViewMode         `json:"routeViewMode"`
	CargoGridLayout     internal.GridLayout            `json:"cargoGridLayout"`
	CargoGroups         map[string]internal.CargoGroup `json:"cargoGroups"`
	CargoGroupPositions map[string]int                 `json:"cargoGroupPositions"`
}

func NewDeliveryState() *DeliveryState {
	return &DeliveryState{
		RouteStepCompletion: map[string]bool{},
		RouteViewMode:       internal.ViewAll,
		CargoGridLayout:     DefaultGridLayout,
		CargoGroups:         map[string]internal.CargoGroup{},
		CargoGroupPositions: map[string]int{},
	}
}

// Regenerate replaces stops, groups and positions wholesale and clears the
// step checklist.
func (s *DeliveryState) Regenerate(missions []internal.Mission, opts Options, alloc *IDAllocator) {
	res := Consolidate(missions, Prior{Groups: s.CargoGroups, Positions: s.CargoGroupPositions}, opts, alloc)
	s.RouteStops = res.Stops
	s.CargoGroups = res.Groups
	s.CargoGroupPositions = res.Positions
	s.RouteStepCompletion = map[string]bool{}
}

// ReorderStops applies a user ordering. Unknown ids are ignored and stops
// missing from ids are dropped.
func (s *DeliveryState) ReorderStops(ids []string) {
	byID := make(map[string]internal.RouteStop, len(s.RouteStops))
	for _, stop := range s.RouteStops {
		byID[stop.ID] = stop
	}
	reordered := make([]internal.RouteStop, 0, len(ids))
	for _, id := range ids {
		if stop, ok := byID[id]; ok {
			reordered = append(reordered, stop)
			delete(byID, id)
		}
	}
	s.RouteStops = reordered
}

func (s *DeliveryState) ToggleStep(stopID string) bool {
	if s.RouteStepCompletion == nil {
		s.RouteStepCompletion = map[string]bool{}
	}
	s.RouteStepCompletion[stopID] = !s.RouteStepCompletion[stopID]
	return s.RouteStepCompletion[stopID]
}

func (s *DeliveryState) ResetSteps() {
	s.RouteStepCompletion = map[string]bool{}
}

func (s *DeliveryState) SetViewMode(mode internal.RouteViewMode) error {
	switch mode {
	case internal.ViewAll, internal.ViewCurrent, internal.ViewCurrentNext:
		s.RouteViewMode = mode
		return nil
	}
	return fmt.Errorf("unknown route view mode: %s", mode)
}

// VisibleStops filters the route for the view mode: every stop, the first
// unfinished stop, or the first two unfinished stops.
func (s *DeliveryState) VisibleStops() []internal.RouteStop {
	if s.RouteViewMode == internal.ViewAll || s.RouteViewMode == "" {
		return s.RouteStops
	}
	limit := 1
	if s.RouteViewMode == internal.ViewCurrentNext {
		limit = 2
	}
	out := make([]internal.RouteStop, 0, limit)
	for _, stop := range s.RouteStops {
		if s.RouteStepCompletion[stop.ID] {
			continue
		}
		out = append(out, stop)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *DeliveryState) SetGroupColor(location, color string) error {
	group, ok := s.CargoGroups[location]
	if !ok {
		return fmt.Errorf("no cargo group for %q", location)
	}
	if !hexColor.MatchString(color) {
		return fmt.Errorf("invalid colour %q, want #rrggbb", color)
	}
	group.Color = color
	s.CargoGroups[location] = group
	return nil
}

func (s *DeliveryState) SetGroupLabel(location, label string) error {
	group, ok := s.CargoGroups[location]
	if !ok {
		return fmt.Errorf("no cargo group for %q", location)
	}
	group.Label = label
	s.CargoGroups[location] = group
	return nil
}

// MoveGroup puts a group into a grid cell, swapping with whatever group
// held that cell.
func (s *DeliveryState) MoveGroup(location string, cell int) error {
	from, ok := s.CargoGroupPositions[location]
	if !ok {
		return fmt.Errorf("no cargo group position for %q", location)
	}
	if cell < 0 || (s.CargoGridLayout.Cells() > 0 && cell >= s.CargoGridLayout.Cells()) {
		return fmt.Errorf("cell %d outside %dx%d grid", cell, s.CargoGridLayout.Cols, s.CargoGridLayout.Rows)
	}
	for other, idx := range s.CargoGroupPositions {
		if idx == cell && other != location {
			s.CargoGroupPositions[other] = from
		}
	}
	s.CargoGroupPositions[location] = cell
	return nil
}

func (s *DeliveryState) SetGridLayout(layout internal.GridLayout) error {
	if layout.Cols <= 0 || layout.Rows <= 0 {
		return fmt.Errorf("invalid grid layout %dx%d", layout.Cols, layout.Rows)
	}
	s.CargoGridLayout = layout
	return nil
}

// GridCells lays groups out by position; empty cells are "".
func (s *DeliveryState) GridCells() []string {
	size := s.CargoGridLayout.Cells()
	for location, cell := range s.CargoGroupPositions {
		if _, live := s.CargoGroups[location]; live && cell >= size {
			size = cell + 1
		}
	}
	cells := make([]string, size)
	for location, cell := range s.CargoGroupPositions {
		if _, live := s.CargoGroups[location]; !live || cell < 0 {
			continue
		}
		cells[cell] = location
	}
	return cells
}
