package dropdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hauler/internal/config"
)

func TestFetchInboxMovesFiles(t *testing.T) {
	dir := t.TempDir()
	raw := "From: pilot@example.com\r\nSubject: Contract\r\nMessage-ID: <c1@example.com>\r\nDate: Sun, 08 Feb 2026 10:00:00 +0000\r\n\r\nDeliver 4 SCU Gold to Area18 on Stanton.\r\n"
	if err := os.WriteFile(filepath.Join(dir, "a.eml"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewConnector(config.Config{MailDropDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := c.FetchInbox(context.Background(), "INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len=%d", len(msgs))
	}
	if msgs[0].MessageID != "<c1@example.com>" || msgs[0].Subject != "Contract" || msgs[0].ReceivedAt != "2026-02-08T10:00:00Z" {
		t.Fatalf("got %+v", msgs[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "done", "a.eml")); err != nil {
		t.Fatal(err)
	}

	again, err := c.FetchInbox(context.Background(), "INBOX", 10)
	if err != nil || len(again) != 0 {
		t.Fatalf("got %d %v want nothing new", len(again), err)
	}
}

func TestFetchInboxMissingDir(t *testing.T) {
	c, err := NewConnector(config.Config{MailDropDir: filepath.Join(t.TempDir(), "missing")})
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := c.FetchInbox(context.Background(), "", 5)
	if err != nil || msgs != nil {
		t.Fatalf("got %v %v", msgs, err)
	}
}
