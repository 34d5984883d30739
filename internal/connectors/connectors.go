package connectors

import (
	"context"
	"fmt"

	"hauler/internal"
	"hauler/internal/config"
	"hauler/internal/connectors/dropdir"
	"hauler/internal/connectors/gmail"
	"hauler/internal/connectors/imap"
)

// MailConnector pulls forwarded mission messages from one mailbox.
type MailConnector interface {
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}

// New picks the connector for provider ("imap", "gmail" or "dir").
func New(ctx context.Context, cfg config.Config, provider string) (MailConnector, error) {
	switch provider {
	case "imap":
		return imap.NewConnector(cfg)
	case "gmail":
		return gmail.NewConnector(ctx, cfg)
	case "dir":
		return dropdir.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
