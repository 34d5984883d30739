package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"hauler/internal"
	"hauler/internal/storage"
)

// MailStoreService keeps raw messages on disk named by content hash and
// indexes them in the inbox table.
type MailStoreService struct {
	db     *storage.DB
	rawDir string
}

func NewMailStoreService(db *storage.DB, rawDir string) *MailStoreService {
	return &MailStoreService{db: db, rawDir: rawDir}
}

// Store reports created=true when the message was not indexed before.
// Re-fetching a known message keeps its processing status.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.InboxRow, bool, error) {
	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawDir, 0o755); err != nil {
		return internal.InboxRow{}, false, err
	}

	rawPath := filepath.Join(s.rawDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.InboxRow{}, false, err
		}
	}

	existing, err := s.db.GetInboxByProviderMessageID(msg.Provider, msg.MessageID)
	if err != nil {
		return internal.InboxRow{}, false, err
	}
	row, err := s.db.UpsertInbox(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawPath, "fetched")
	return row, existing == nil, err
}
