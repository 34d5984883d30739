package storage

import (
	"testing"

	"hauler/internal"
	"hauler/internal/route"
)

const legacySessionJSON = `{
  "ship": "caterpillar",
  "system": "stanton",
  "category": "hauling",
  "missions": [
    {"id": "mission_3", "payout": "45k", "commodities": [
      {"id": "commodity_7", "commodity": "Gold", "pickup": "Area18", "destination": "Baijini Point", "quantity": "12", "maxBoxSize": "8"},
      {"id": "commodity_8", "commodity": "Iron", "pickup": "Area18", "destination": "Seraphim Station", "quantity": 6, "maxBoxSize": ""}
    ]}
  ],
  "locationColors": {
    "Seraphim Station": {"color": "#ec4899", "label": ""},
    "Baijini Point": {"color": "#4dd4ac", "label": "Bay 1"}
  },
  "routeViewMode": "current"
}`

func seedLegacy(t *testing.T, db *DB) {
	t.Helper()
	for key, value := range map[string]string{
		KeySession:                      legacySessionJSON,
		"haulerHelperTheme":             "lux",
		"haulerHelperCargoGridLayout":   `{"cols":3,"rows":2}`,
		"haulerHelperOrganizerGroupBy":  "location",
		"haulerHelperCargoGridExpanded": "true",
	} {
		if err := db.SetKV(key, value); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMigrateLegacy(t *testing.T) {
	db := openTestDB(t)
	seedLegacy(t, db)

	migrated, err := db.MigrateLegacy()
	if err != nil || !migrated {
		t.Fatalf("got %v %v want migrated", migrated, err)
	}

	s, err := db.LoadSession(&route.IDAllocator{})
	if err != nil {
		t.Fatal(err)
	}
	if s.SelectedShipID == nil || *s.SelectedShipID != "caterpillar" || s.SelectedCategory != "hauling" {
		t.Fatalf("got %+v", s)
	}
	rows := s.Missions[0].Commodities
	if rows[0].Quantity != 12 || rows[0].MaxBoxSize != 8 || rows[1].Quantity != 6 || rows[1].MaxBoxSize != 4 {
		t.Fatalf("got rows %+v", rows)
	}
	if m := s.AddMission(); m.ID != "mission_4" {
		t.Fatalf("got %s want mission_4", m.ID)
	}

	ui, err := db.LoadUI()
	if err != nil || ui.Theme != "lux" || ui.ActiveDeliveryTab != "route" {
		t.Fatalf("got %+v %v", ui, err)
	}

	delivery, err := db.LoadDelivery(nil)
	if err != nil {
		t.Fatal(err)
	}
	if delivery.CargoGridLayout != (internal.GridLayout{Cols: 3, Rows: 2}) {
		t.Fatalf("got grid %+v", delivery.CargoGridLayout)
	}
	if delivery.RouteViewMode != internal.ViewCurrent {
		t.Fatalf("got view mode %s", delivery.RouteViewMode)
	}
	if delivery.CargoGroupPositions["Seraphim Station"] != 0 || delivery.CargoGroupPositions["Baijini Point"] != 1 {
		t.Fatalf("got positions %v", delivery.CargoGroupPositions)
	}
	if delivery.CargoGroups["Seraphim Station"].Label != "Seraphim Station" || delivery.CargoGroups["Baijini Point"].Label != "Bay 1" {
		t.Fatalf("got groups %+v", delivery.CargoGroups)
	}

	for _, key := range legacyOnlyKeys {
		if v, _ := db.GetKV(key); v != nil {
			t.Fatalf("legacy key %s survived", key)
		}
	}
}

func TestMigrateLegacyTwiceIsNoop(t *testing.T) {
	db := openTestDB(t)
	seedLegacy(t, db)
	if _, err := db.MigrateLegacy(); err != nil {
		t.Fatal(err)
	}
	first, _ := db.GetKV(KeySession)

	migrated, err := db.MigrateLegacy()
	if err != nil || migrated {
		t.Fatalf("got %v %v want no second migration", migrated, err)
	}
	second, _ := db.GetKV(KeySession)
	if *first != *second {
		t.Fatalf("session changed on second run")
	}
}

func TestMigrateLegacyKeepsExistingRecords(t *testing.T) {
	db := openTestDB(t)
	seedLegacy(t, db)
	if err := db.SaveUI(UIState{Theme: "pulse", ActiveDeliveryTab: "cargo"}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.MigrateLegacy(); err != nil {
		t.Fatal(err)
	}
	ui, _ := db.LoadUI()
	if ui.Theme != "pulse" || ui.ActiveDeliveryTab != "cargo" {
		t.Fatalf("got %+v want existing UI kept", ui)
	}
}

func TestMigrateLegacyBadJSON(t *testing.T) {
	db := openTestDB(t)
	if err := db.SetKV(KeySession, "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetKV("haulerHelperTheme", "lux"); err != nil {
		t.Fatal(err)
	}
	migrated, err := db.MigrateLegacy()
	if err != nil || migrated {
		t.Fatalf("got %v %v want silent abort", migrated, err)
	}
	if v, _ := db.GetKV("haulerHelperTheme"); v == nil {
		t.Fatalf("storage was modified")
	}
	if v, _ := db.GetKV(KeyUI); v != nil {
		t.Fatalf("storage was modified")
	}
}

func TestMigrateLegacyEmpty(t *testing.T) {
	db := openTestDB(t)
	migrated, err := db.MigrateLegacy()
	if err != nil || migrated {
		t.Fatalf("got %v %v", migrated, err)
	}
}
