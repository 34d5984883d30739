package route

import (
	"testing"

	"hauler/internal"
)

func sampleState() *DeliveryState {
	s := NewDeliveryState()
	s.Regenerate([]internal.Mission{
		mission("mission_1", row("Gold", "A", "X", 8), row("Iron", "A", "Y", 4)),
	}, Options{}, &IDAllocator{})
	return s
}

func TestRegenerateClearsCompletion(t *testing.T) {
	s := sampleState()
	s.ToggleStep(s.RouteStops[0].ID)
	s.Regenerate([]internal.Mission{mission("mission_1", row("Gold", "A", "X", 8))}, Options{}, &IDAllocator{})
	if len(s.RouteStepCompletion) != 0 {
		t.Fatalf("got %v want empty completion", s.RouteStepCompletion)
	}
}

func TestReorderStopsDropsUnknown(t *testing.T) {
	s := sampleState()
	ids := []string{s.RouteStops[2].ID, "nope", s.RouteStops[0].ID}
	s.ReorderStops(ids)
	if len(s.RouteStops) != 2 || s.RouteStops[0].Location != "Y" || s.RouteStops[1].Location != "A" {
		t.Fatalf("got %+v", s.RouteStops)
	}
}

func TestVisibleStops(t *testing.T) {
	s := sampleState()
	s.ToggleStep(s.RouteStops[0].ID)

	cases := []struct {
		mode internal.RouteViewMode
		want []string
	}{
		{internal.ViewAll, []string{"A", "X", "Y"}},
		{internal.ViewCurrent, []string{"X"}},
		{internal.ViewCurrentNext, []string{"X", "Y"}},
	}
	for _, tc := range cases {
		if err := s.SetViewMode(tc.mode); err != nil {
			t.Fatalf("set %s: %v", tc.mode, err)
		}
		got := s.VisibleStops()
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d stops want %d", tc.mode, len(got), len(tc.want))
		}
		for i := range got {
			if got[i].Location != tc.want[i] {
				t.Fatalf("%s: stop %d got %s want %s", tc.mode, i, got[i].Location, tc.want[i])
			}
		}
	}
	if err := s.SetViewMode("sideways"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestToggleAndResetSteps(t *testing.T) {
	s := sampleState()
	id := s.RouteStops[1].ID
	if !s.ToggleStep(id) {
		t.Fatalf("first toggle should complete")
	}
	if s.ToggleStep(id) {
		t.Fatalf("second toggle should undo")
	}
	s.ToggleStep(id)
	s.ResetSteps()
	if s.RouteStepCompletion[id] {
		t.Fatalf("reset left step completed")
	}
}

func TestMoveGroupSwaps(t *testing.T) {
	s := sampleState()
	if err := s.MoveGroup("X", 1); err != nil {
		t.Fatal(err)
	}
	if s.CargoGroupPositions["X"] != 1 || s.CargoGroupPositions["Y"] != 0 {
		t.Fatalf("got %v want swapped", s.CargoGroupPositions)
	}
	if err := s.MoveGroup("X", 5); err != nil {
		t.Fatal(err)
	}
	cells := s.GridCells()
	if cells[5] != "X" || cells[0] != "Y" || cells[1] != "" {
		t.Fatalf("got cells %v", cells)
	}
	if err := s.MoveGroup("X", 8); err == nil {
		t.Fatalf("expected out of grid error")
	}
	if err := s.MoveGroup("Nowhere", 0); err == nil {
		t.Fatalf("expected unknown group error")
	}
}

func TestGroupEdits(t *testing.T) {
	s := sampleState()
	if err := s.SetGroupColor("X", "#00ff00"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetGroupColor("X", "green"); err == nil {
		t.Fatalf("expected invalid colour error")
	}
	if err := s.SetGroupLabel("Y", "Bay 2"); err != nil {
		t.Fatal(err)
	}
	if s.CargoGroups["X"].Color != "#00ff00" || s.CargoGroups["Y"].Label != "Bay 2" {
		t.Fatalf("got %+v", s.CargoGroups)
	}
	if err := s.SetGridLayout(internal.GridLayout{Cols: 0, Rows: 3}); err == nil {
		t.Fatalf("expected invalid layout error")
	}
	if err := s.SetGridLayout(internal.GridLayout{Cols: 3, Rows: 3}); err != nil || s.CargoGridLayout.Cells() != 9 {
		t.Fatalf("layout not applied: %v", err)
	}
}
