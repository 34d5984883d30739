package listener

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hauler/internal/config"
	"hauler/internal/storage"
)

const contractMail = "From: pilot@example.com\r\n" +
	"Subject: Hauling contract\r\n" +
	"Message-ID: <listener-1@example.com>\r\n" +
	"Date: Sun, 08 Feb 2026 10:00:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Reward 30,000 aUEC\r\n" +
	"Collect Gold from Area18.\r\n" +
	"Deliver 8 SCU Gold to Baijini Point above ArcCorp.\r\n"

func TestRunCycleDropDir(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	drop := filepath.Join(tmp, "drop")
	if err := os.MkdirAll(drop, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(drop, "contract.eml"), []byte(contractMail), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		InboxRawDir:              filepath.Join(tmp, "raw"),
		OutputDir:                filepath.Join(tmp, "out"),
		MailDropDir:              drop,
		ExtractLookbackChars:     1000,
		Theme:                    "stardust",
		GridCols:                 2,
		GridRows:                 4,
		MailListenerProvider:     "dir",
		MailListenerFetchMax:     10,
		MailListenerProcessBatch: 10,
		MailListenerAutoRoute:    true,
		MailListenerAutoExport:   true,
	}
	svc := NewService(db, cfg)

	res, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Fetched != 1 || res.Stored != 1 || res.Processed != 1 || res.Missions != 1 {
		t.Fatalf("got %+v", res)
	}

	ws, err := db.LoadWorkspace(storage.Defaults{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Session.Missions) != 1 || len(ws.Delivery.RouteStops) != 2 {
		t.Fatalf("missions=%d stops=%d", len(ws.Session.Missions), len(ws.Delivery.RouteStops))
	}

	csv, err := os.ReadFile(filepath.Join(cfg.OutputDir, "listener", "session.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(csv), `"Baijini Point"`) {
		t.Fatalf("csv=%s", csv)
	}

	again, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again.Fetched != 0 || again.Processed != 0 {
		t.Fatalf("second cycle got %+v", again)
	}
}

func TestRunCycleUnknownProvider(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := NewService(db, config.Config{MailListenerProvider: "pop3"}).RunCycle(context.Background()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
