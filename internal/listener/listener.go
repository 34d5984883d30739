package listener

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hauler/internal"
	"hauler/internal/catalog"
	"hauler/internal/config"
	"hauler/internal/connectors"
	"hauler/internal/obs"
	"hauler/internal/pipeline"
	"hauler/internal/storage"
)

const aliasMaxAge = 24 * time.Hour

type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

type CycleResult struct {
	Fetched   int
	Stored    int
	Processed int
	Missions  int
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			log.Printf("op=listener.cycle err=%v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle fetches new mail, processes everything pending for the provider
// and optionally exports the session afterwards.
func (s *Service) RunCycle(ctx context.Context) (res CycleResult, err error) {
	ctx = obs.WithTraceID(ctx, uuid.NewString())
	defer obs.Time(ctx, "listener.cycle")(&err)

	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	if s.cfg.CatalogAPIBaseURL != "" {
		if _, err := catalog.NewSyncService(s.db, s.cfg).SyncIfStale(ctx, aliasMaxAge); err != nil {
			log.Printf("trace_id=%s op=aliases.sync err=%v", obs.TraceID(ctx), err)
		}
	}

	mailConnector, err := connectors.New(ctx, s.cfg, provider)
	if err != nil {
		return res, err
	}

	fetched, err := connectors.NewFetchService(s.db, s.cfg.InboxRawDir, mailConnector).
		FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return res, err
	}
	res.Fetched = fetched.Fetched
	res.Stored = fetched.Stored

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	res.Processed, res.Missions, err = processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return res, err
	}

	if s.cfg.MailListenerAutoExport && res.Missions > 0 {
		if err := s.exportSession(); err != nil {
			return res, err
		}
	}

	log.Printf("trace_id=%s op=listener.done provider=%s fetched=%d stored=%d processed=%d missions=%d",
		obs.TraceID(ctx), provider, res.Fetched, res.Stored, res.Processed, res.Missions)
	return res, nil
}

func (s *Service) exportSession() error {
	ws, err := s.db.LoadWorkspace(storage.Defaults{
		Theme: s.cfg.Theme,
		Grid:  internal.GridLayout{Cols: s.cfg.GridCols, Rows: s.cfg.GridRows},
	})
	if err != nil {
		return err
	}
	dir := filepath.Join(s.cfg.OutputDir, "listener")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, "session.csv")
	if err := os.WriteFile(path, []byte(pipeline.ExportCSV(ws.Session.Missions)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
