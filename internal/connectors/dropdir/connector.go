package dropdir

import (
	"bytes"
	"context"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"hauler/internal"
	"hauler/internal/config"
)

const doneDir = "done"

// Connector treats a local folder as a mailbox: every .eml dropped there
// is fetched once and then moved into a done/ subfolder.
type Connector struct {
	dir string
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("MAIL_DROP_DIR", cfg.MailDropDir); err != nil {
		return nil, err
	}
	return &Connector{dir: cfg.MailDropDir}, nil
}

// FetchInbox ignores label; the drop folder has no mailboxes.
func (c *Connector) FetchInbox(ctx context.Context, _ string, max int) ([]internal.FetchedMailMessage, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if max > 0 && len(names) > max {
		names = names[:max]
	}

	out := make([]internal.FetchedMailMessage, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		path := filepath.Join(c.dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return out, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return out, err
		}
		out = append(out, toFetched(name, raw, info.ModTime()))

		if err := os.MkdirAll(filepath.Join(c.dir, doneDir), 0o755); err != nil {
			return out, err
		}
		if err := os.Rename(path, filepath.Join(c.dir, doneDir, name)); err != nil {
			return out, err
		}
	}
	return out, nil
}

func toFetched(name string, raw []byte, modTime time.Time) internal.FetchedMailMessage {
	msg := internal.FetchedMailMessage{
		Provider:   "dir",
		MessageID:  name,
		ReceivedAt: modTime.UTC().Format(time.RFC3339),
		Raw:        raw,
	}
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return msg
	}
	if id := strings.TrimSpace(env.GetHeader("Message-ID")); id != "" {
		msg.MessageID = id
	}
	msg.Subject = env.GetHeader("Subject")
	msg.From = env.GetHeader("From")
	if date, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
		msg.ReceivedAt = date.UTC().Format(time.RFC3339)
	}
	return msg
}
