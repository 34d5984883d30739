package pipeline

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"hauler/internal"
	"hauler/internal/session"
)

func sampleMissions() []internal.Mission {
	return []internal.Mission{
		{ID: "mission_1", Payout: "45k", Commodities: []internal.CommodityRow{
			{ID: "commodity_1", Commodity: "Gold", Pickup: "Area18", Destination: "Baijini Point", Quantity: 10, MaxBoxSize: 8},
			{ID: "commodity_2"},
			{ID: "commodity_3", Commodity: "Iron", Pickup: "Area18", Destination: "Port \"Tressler\"", Quantity: 0, MaxBoxSize: 0},
		}},
		{ID: "mission_2", Commodities: []internal.CommodityRow{
			{ID: "commodity_4", Commodity: "Tin", Destination: "Everus Harbor", Quantity: 4, MaxBoxSize: 4},
		}},
	}
}

func TestExportCSV(t *testing.T) {
	want := "Mission,Payout,Commodity,Pickup,Quantity,Max Box,Destination\n" +
		"1,45k,\"Gold\",\"Area18\",10,8,\"Baijini Point\"\n" +
		"1,45k,\"Iron\",\"Area18\",,4,\"Port \"\"Tressler\"\"\"\n" +
		"2,,\"Tin\",\"\",4,4,\"Everus Harbor\"\n"
	if got := ExportCSV(sampleMissions()); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestExportJSON(t *testing.T) {
	ship := "caterpillar"
	s := &session.Session{Missions: sampleMissions(), SelectedShipID: &ship, SelectedSystem: "stanton"}
	blob, err := ExportJSON(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Metadata map[string]any `json:"metadata"`
		Missions []struct {
			MissionNumber int    `json:"missionNumber"`
			MissionID     string `json:"missionId"`
			Commodities   []map[string]any
		} `json:"missions"`
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Metadata["version"] != ExportVersion || doc.Metadata["ship"] != "caterpillar" || doc.Metadata["exportDate"] != "2026-03-01T12:00:00.000Z" {
		t.Fatalf("metadata=%v", doc.Metadata)
	}
	if doc.Missions[1].MissionNumber != 2 || doc.Missions[1].MissionID != "mission_2" || len(doc.Missions[0].Commodities) != 3 {
		t.Fatalf("missions=%+v", doc.Missions)
	}
	if _, ok := doc.Missions[0].Commodities[0]["id"]; ok {
		t.Fatalf("row ids must not be exported")
	}
}

func TestExportXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "missions.xlsx")
	if err := ExportXLSX(sampleMissions(), path); err != nil {
		t.Fatal(err)
	}
	missions, err := ImportXLSX(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(missions) != 2 {
		t.Fatalf("len=%d", len(missions))
	}
	if missions[0].Payout != "45k" || len(missions[0].Commodities) != 2 {
		t.Fatalf("first=%+v", missions[0])
	}
	want := internal.CommodityRow{Commodity: "Gold", Pickup: "Area18", Destination: "Baijini Point", Quantity: 10, MaxBoxSize: 8}
	if missions[0].Commodities[0] != want {
		t.Fatalf("got %+v want %+v", missions[0].Commodities[0], want)
	}
	if missions[0].Commodities[1].MaxBoxSize != 4 || missions[0].Commodities[1].Quantity != 0 {
		t.Fatalf("second row=%+v", missions[0].Commodities[1])
	}
	if missions[1].Payout != "" || missions[1].Commodities[0].Destination != "Everus Harbor" {
		t.Fatalf("second=%+v", missions[1])
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	if got := ExportFilename(nil, "csv", now); got != "hauler-helper-session-2026-03-01.csv" {
		t.Fatalf("got %s", got)
	}
	ship := "hull-a"
	if got := ExportFilename(&ship, "json", now); got != "hauler-helper-hull-a-2026-03-01.json" {
		t.Fatalf("got %s", got)
	}
}
