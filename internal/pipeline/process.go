package pipeline

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"hauler/internal"
	"hauler/internal/catalog"
	"hauler/internal/config"
	"hauler/internal/storage"
)

const (
	StatusFetched   = "fetched"
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	InboxID  int
	Missions int
	Segments int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	row, err := s.db.MustInboxByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessInbox(row)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListInboxByStatus(StatusFetched, limit)
	if err != nil {
		return 0, 0, err
	}
	processedMessages := 0
	importedMissions := 0
	for _, row := range pending {
		if provider != "" && row.Provider != provider {
			continue
		}
		res, err := s.ProcessInbox(row)
		if err != nil {
			return processedMessages, importedMissions, err
		}
		processedMessages++
		importedMissions += res.Missions
	}
	return processedMessages, importedMissions, nil
}

// ProcessInbox extracts missions from one stored message, appends them to
// the saved session and, when auto-route is on, rebuilds the route.
func (s *ProcessingService) ProcessInbox(row internal.InboxRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(row.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	msg, err := ReadMessage(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectMissionText(firstNonEmpty(msg.Subject, row.Subject), msg.Text(), msg.Attachments)
	if err := s.db.ClearInboxExtractions(row.ID); err != nil {
		return ProcessResult{}, err
	}

	if !detect.IsMission {
		if err := s.db.UpdateInboxStatus(row.ID, StatusSkipped); err != nil {
			return ProcessResult{}, err
		}
		_ = s.db.InsertRun(uuid.NewString(), row.ID, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, map[string]int{"parts": len(msg.Parts), "missions": 0, "segments": 0})
		return ProcessResult{InboxID: row.ID}, nil
	}

	aliases, err := s.db.ListAliases()
	if err != nil {
		return ProcessResult{}, err
	}
	index := catalog.BuildIndex(aliases)
	extractor := NewExtractor(index, s.cfg.ExtractLookbackChars)

	parsed := []internal.ParsedMission{}
	segments := 0
	for _, part := range msg.Parts {
		mission := extractor.ExtractMission(part.Text)
		if len(mission.Segments) == 0 {
			continue
		}
		if _, err := s.db.InsertExtraction(row.ID, part.Source, 100, mission); err != nil {
			return ProcessResult{}, err
		}
		parsed = append(parsed, mission)
		segments += len(mission.Segments)
	}
	extractMs := float64(time.Since(start).Milliseconds())

	if len(parsed) > 0 {
		ws, err := s.db.LoadWorkspace(storage.Defaults{
			Theme: s.cfg.Theme,
			Grid:  internal.GridLayout{Cols: s.cfg.GridCols, Rows: s.cfg.GridRows},
		})
		if err != nil {
			return ProcessResult{}, err
		}
		ws.Session.ImportParsed(parsed)
		if s.cfg.MailListenerAutoRoute {
			ws.RegenerateRoute(index, s.cfg.RoutePruneOrphans)
		}
		// Missions and the processed status commit together so a retry
		// never imports the same message twice.
		if err := s.db.SaveWorkspaceWithStatus(ws, row.ID, StatusProcessed); err != nil {
			return ProcessResult{}, err
		}
	} else if err := s.db.UpdateInboxStatus(row.ID, StatusProcessed); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.InsertRun(uuid.NewString(), row.ID,
		map[string]float64{"extractMs": extractMs, "totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"parts": len(msg.Parts), "missions": len(parsed), "segments": segments},
	)

	return ProcessResult{InboxID: row.ID, Missions: len(parsed), Segments: segments}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
