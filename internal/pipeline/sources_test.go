package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleMessage = "From: pilot@example.com\r\n" +
	"To: inbox@example.com\r\n" +
	"Subject: Hauling contract\r\n" +
	"Message-ID: <contract-1@example.com>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n" +
	"\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Reward 45,000 aUEC\r\n" +
	"Collect Gold from Area18.\r\n" +
	"Deliver 0/10 SCU of Gold to Baijini Point above ArcCorp.\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Disposition: attachment; filename=\"second.txt\"\r\n" +
	"\r\n" +
	"Collect Iron from Seraphim Station.\r\n" +
	"Deliver 6 SCU Iron to Everus Harbor on Hurston.\r\n" +
	"--BOUNDARY--\r\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileRecognizerText(t *testing.T) {
	path := writeFile(t, "mission.txt", "\r\nCollect Gold from Area18.\r\nDeliver 10 SCU Gold to Baijini Point on Pad 04.\r\n")
	text, confidence, err := FileRecognizer{}.Recognize(path)
	if err != nil {
		t.Fatal(err)
	}
	if confidence != 100 || !strings.HasPrefix(text, "Collect Gold") || strings.Contains(text, "\r") {
		t.Fatalf("got %q %v", text, confidence)
	}
}

func TestFileRecognizerHTML(t *testing.T) {
	page := `<html><head><style>p{}</style></head><body><div>
<p>Collect Gold from Area18.</p>
<p>Deliver 10 SCU Gold to Baijini Point on Pad 04.</p>
</div></body></html>`
	text, _, err := FileRecognizer{}.Recognize(writeFile(t, "mission.html", page))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Collect Gold from Area18.\nDeliver 10 SCU Gold to Baijini Point on Pad 04." {
		t.Fatalf("got %q", text)
	}
	parsed := newTestExtractor().ExtractMission(text)
	if len(parsed.Segments) != 1 || parsed.Segments[0].Pickup != "Area18" {
		t.Fatalf("got %+v", parsed.Segments)
	}
}

func TestFileRecognizerEmptyAndUnsupported(t *testing.T) {
	_, confidence, err := FileRecognizer{}.Recognize(writeFile(t, "blank.txt", "  \n "))
	if err != nil || confidence != 0 {
		t.Fatalf("got %v %v want zero confidence", confidence, err)
	}
	if _, _, err := (FileRecognizer{}).Recognize(writeFile(t, "shot.png", "x")); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, _, err := (FileRecognizer{}).Recognize(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestReadMessage(t *testing.T) {
	msg, err := ReadMessage([]byte(sampleMessage))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Subject != "Hauling contract" {
		t.Fatalf("subject=%q", msg.Subject)
	}
	if len(msg.Parts) != 2 || msg.Parts[0].Source != "body" || msg.Parts[1].Source != "second.txt" {
		t.Fatalf("got parts %+v", msg.Parts)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0] != "second.txt" {
		t.Fatalf("got attachments %v", msg.Attachments)
	}
	if !strings.Contains(msg.Text(), "Seraphim Station") {
		t.Fatalf("joined text misses attachment")
	}
}
