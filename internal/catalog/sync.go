package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"hauler/internal"
	"hauler/internal/config"
	"hauler/internal/storage"
)

const (
	lastSyncKey = "aliases.last_sync"
	aliasSource = "api"
)

type SyncService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

func NewSyncService(db *storage.DB, cfg config.Config) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), cfg: cfg}
}

// Sync pulls commodity and location names, stores every code and nickname
// as an alias of its full name and writes a JSON snapshot to OutputDir.
func (s *SyncService) Sync(ctx context.Context) (int, error) {
	commodities, err := s.client.GetCommodities(ctx)
	if err != nil {
		return 0, err
	}
	locations, err := s.client.GetLocations(ctx)
	if err != nil {
		return 0, err
	}

	records := append(toAliasRecords(internal.AliasCommodity, commodities), toAliasRecords(internal.AliasLocation, locations)...)
	if err := s.db.UpsertAliases(records); err != nil {
		return 0, err
	}
	_ = s.db.SetMetadata(lastSyncKey, time.Now().UTC().Format(time.RFC3339))
	if err := s.writeSnapshot(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// SyncIfStale runs Sync when the last successful sync is older than maxAge
// or has never happened. It returns false when nothing was fetched.
func (s *SyncService) SyncIfStale(ctx context.Context, maxAge time.Duration) (bool, error) {
	last, err := s.db.GetMetadata(lastSyncKey)
	if err != nil {
		return false, err
	}
	if last != nil {
		if parsed, err := time.Parse(time.RFC3339, *last); err == nil && time.Since(parsed) < maxAge {
			return false, nil
		}
	}
	if _, err := s.Sync(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SyncService) writeSnapshot() error {
	records, err := s.db.ListAliases()
	if err != nil {
		return err
	}
	blob, _ := json.MarshalIndent(records, "", "  ")
	path := filepath.Join(s.cfg.OutputDir, "aliases.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

// LoadIndex builds the normalizer from the static tables plus every stored
// alias.
func LoadIndex(db *storage.DB) (*Index, error) {
	records, err := db.ListAliases()
	if err != nil {
		return nil, err
	}
	return BuildIndex(records), nil
}

func toAliasRecords(kind internal.AliasKind, entries []Entry) []internal.AliasRecord {
	out := make([]internal.AliasRecord, 0, len(entries)*3)
	for _, e := range entries {
		for _, alias := range []string{e.Name, e.Code, e.Nickname} {
			if alias == "" {
				continue
			}
			out = append(out, internal.AliasRecord{Kind: kind, Alias: alias, Canonical: e.Name, Source: aliasSource})
		}
	}
	return out
}
