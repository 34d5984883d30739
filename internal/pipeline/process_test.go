package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"hauler/internal"
	"hauler/internal/config"
	"hauler/internal/storage"
)

func TestSmokeInboxToRoute(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, []byte(sampleMessage), 0o644); err != nil {
		t.Fatal(err)
	}
	row, err := db.UpsertInbox("imap", "<contract-1@example.com>", "Hauling contract", "pilot@example.com", "2026-02-08T00:00:00Z", "hash", rawPath, StatusFetched)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{ExtractLookbackChars: 1000, Theme: "stardust", GridCols: 2, GridRows: 4, MailListenerAutoRoute: true}
	proc := NewProcessingService(db, cfg)
	messages, missions, err := proc.ProcessPending(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if messages != 1 || missions != 2 {
		t.Fatalf("messages=%d missions=%d", messages, missions)
	}

	ws, err := db.LoadWorkspace(storage.Defaults{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Session.Missions) != 2 || ws.Session.Missions[0].Payout != "45k" {
		t.Fatalf("session=%+v", ws.Session.Missions)
	}
	want := []string{"pickup:Area18", "pickup:Seraphim Station", "delivery:Baijini Point", "delivery:Everus Harbor"}
	if len(ws.Delivery.RouteStops) != len(want) {
		t.Fatalf("stops=%+v", ws.Delivery.RouteStops)
	}
	for i, stop := range ws.Delivery.RouteStops {
		if got := string(stop.Type) + ":" + stop.Location; got != want[i] {
			t.Fatalf("stop %d: got %s want %s", i, got, want[i])
		}
	}

	stored, _ := db.GetInboxByID(row.ID)
	if stored.Status != StatusProcessed {
		t.Fatalf("status=%s", stored.Status)
	}
	extractions, _ := db.ListExtractions(row.ID)
	if len(extractions) != 2 {
		t.Fatalf("extractions=%d", len(extractions))
	}
	if n, _ := db.CountRuns(); n != 1 {
		t.Fatalf("runs=%d", n)
	}

	res, err := proc.ProcessInbox(internal.InboxRow{ID: row.ID, RawRef: rawPath})
	if err != nil {
		t.Fatal(err)
	}
	if res.Missions != 2 {
		t.Fatalf("reprocess missions=%d", res.Missions)
	}
	if list, _ := db.ListExtractions(row.ID); len(list) != 2 {
		t.Fatalf("reprocessing should replace extractions, got %d", len(list))
	}
}

func TestProcessSkipsNonMissionMail(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := "From: a@example.com\r\nSubject: Lunch\r\nContent-Type: text/plain\r\n\r\nSee you at noon\r\n"
	rawPath := filepath.Join(tmp, "lunch.eml")
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	row, err := db.UpsertInbox("imap", "<lunch@example.com>", "Lunch", "a@example.com", "", "hash", rawPath, StatusFetched)
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewProcessingService(db, config.Config{}).ProcessInbox(row)
	if err != nil {
		t.Fatal(err)
	}
	if res.Missions != 0 {
		t.Fatalf("missions=%d", res.Missions)
	}
	stored, _ := db.GetInboxByID(row.ID)
	if stored.Status != StatusSkipped {
		t.Fatalf("status=%s", stored.Status)
	}
}

func TestProcessPayoutOnlyMailImportsNothing(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := "From: pilot@example.com\r\nSubject: Hauling contract\r\nContent-Type: text/plain\r\n\r\nContract Reward 12,345 aUEC\r\nno deliver lines were recognised\r\n"
	rawPath := filepath.Join(tmp, "reward.eml")
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	row, err := db.UpsertInbox("imap", "<reward@example.com>", "Hauling contract", "pilot@example.com", "", "hash", rawPath, StatusFetched)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{ExtractLookbackChars: 1000, MailListenerAutoRoute: true}
	messages, missions, err := NewProcessingService(db, cfg).ProcessPending(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if messages != 1 || missions != 0 {
		t.Fatalf("messages=%d missions=%d want 1 0", messages, missions)
	}

	ws, err := db.LoadWorkspace(storage.Defaults{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Session.Missions) != 0 {
		t.Fatalf("payout-only mail imported %+v", ws.Session.Missions)
	}
	if list, _ := db.ListExtractions(row.ID); len(list) != 0 {
		t.Fatalf("extractions=%d want 0", len(list))
	}
	stored, _ := db.GetInboxByID(row.ID)
	if stored.Status != StatusProcessed {
		t.Fatalf("status=%s", stored.Status)
	}
}

func TestProcessSkippedStatusErrorIsReturned(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawPath := filepath.Join(tmp, "lunch.eml")
	if err := os.WriteFile(rawPath, []byte("Subject: Lunch\r\n\r\nSee you at noon\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Row id that was never stored, so the status write fails.
	_, err = NewProcessingService(db, config.Config{}).ProcessInbox(internal.InboxRow{ID: 999, RawRef: rawPath})
	if err == nil {
		t.Fatal("expected the skipped status write to fail")
	}
}
