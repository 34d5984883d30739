package main

import (
	"strings"
	"testing"

	"hauler/internal"
	"hauler/internal/route"
)

func TestBoxSummary(t *testing.T) {
	cases := []struct {
		qty, max int
		want     string
	}{
		{qty: 18, max: 8, want: "2x8 1x2"},
		{qty: 4, max: 4, want: "1x4"},
		{qty: 0, max: 4, want: ""},
	}
	for _, tc := range cases {
		if got := boxSummary(tc.qty, tc.max); got != tc.want {
			t.Fatalf("boxSummary(%d,%d) got %q want %q", tc.qty, tc.max, got, tc.want)
		}
	}
}

func TestRenderGridShowsGroupsAndEmptyCells(t *testing.T) {
	d := route.NewDeliveryState()
	d.CargoGroups["Baijini Point"] = internal.CargoGroup{Color: "#4dd4ac", Label: "Baijini Point", Items: []internal.CargoItem{{MissionID: "mission_1", Commodity: "Gold", Quantity: 10}}}
	d.CargoGroupPositions["Baijini Point"] = 1

	out := renderGrid(d)
	for _, want := range []string{"Cargo grid 2x4", "Baijini Point", "10 Gold", "0 empty", "7 empty"} {
		if !strings.Contains(out, want) {
			t.Fatalf("grid missing %q:\n%s", want, out)
		}
	}
}

func TestFieldValue(t *testing.T) {
	if v, err := fieldValue("quantity", " 12 "); err != nil || v != 12 {
		t.Fatalf("got %v %v", v, err)
	}
	if _, err := fieldValue("maxBoxSize", "big"); err == nil {
		t.Fatal("expected error for non numeric box size")
	}
	if v, _ := fieldValue("pickup", "Area18"); v != "Area18" {
		t.Fatalf("got %v", v)
	}
	if got := splitList(" a, ,b "); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}
