package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hauler/internal"
	"hauler/internal/catalog"
	"hauler/internal/obs"
	"hauler/internal/pipeline"
	"hauler/internal/route"
	"hauler/internal/storage"
)

type extractRequest struct {
	Text string `json:"text"`
}

type moveRequest struct {
	Cell int `json:"cell"`
}

type orderRequest struct {
	StopIDs []string `json:"stopIds"`
}

type viewRequest struct {
	Mode internal.RouteViewMode `json:"mode"`
}

type routeResponse struct {
	*route.DeliveryState
	VisibleStops []internal.RouteStop `json:"visibleStops"`
	GridCells    []string             `json:"gridCells"`
}

// badRequest marks handler errors that come from caller input.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, http.StatusBadRequest, "text is required")
		return
	}

	var err error
	defer obs.Time(r.Context(), "extract")(&err)

	index, err := catalog.LoadIndex(s.db)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load aliases")
		return
	}
	parsed := pipeline.NewExtractor(index, s.cfg.ExtractLookbackChars).ExtractMission(req.Text)
	writeJSON(w, r, http.StatusOK, parsed)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.readWorkspace()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, r, http.StatusOK, ws.Session)
}

func (s *Server) importSession(w http.ResponseWriter, r *http.Request) {
	var parsed []internal.ParsedMission
	if err := decodeBody(r, &parsed); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var imported []internal.Mission
	_, err := s.withWorkspace(func(ws *storage.Workspace) error {
		imported = ws.Session.ImportParsed(parsed)
		return nil
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, r, http.StatusCreated, imported)
}

func (s *Server) getRoute(w http.ResponseWriter, r *http.Request) {
	ws, err := s.readWorkspace()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load route")
		return
	}
	writeJSON(w, r, http.StatusOK, newRouteResponse(ws.Delivery))
}

func (s *Server) generateRoute(w http.ResponseWriter, r *http.Request) {
	var err error
	defer obs.Time(r.Context(), "route.generate")(&err)

	index, err := catalog.LoadIndex(s.db)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load aliases")
		return
	}
	ws, err := s.withWorkspace(func(ws *storage.Workspace) error {
		ws.RegenerateRoute(index, s.cfg.RoutePruneOrphans)
		return nil
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to save route")
		return
	}
	writeJSON(w, r, http.StatusOK, newRouteResponse(ws.Delivery))
}

func (s *Server) reorderRoute(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateRoute(w, r, func(d *route.DeliveryState) error {
		d.ReorderStops(req.StopIDs)
		return nil
	})
}

func (s *Server) toggleStop(w http.ResponseWriter, r *http.Request) {
	stopID := chi.URLParam(r, "stopID")
	s.mutateRoute(w, r, func(d *route.DeliveryState) error {
		for _, stop := range d.RouteStops {
			if stop.ID == stopID {
				d.ToggleStep(stopID)
				return nil
			}
		}
		return badRequest{msg: "unknown stop " + stopID}
	})
}

func (s *Server) setViewMode(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateRoute(w, r, func(d *route.DeliveryState) error {
		if err := d.SetViewMode(req.Mode); err != nil {
			return badRequest{msg: err.Error()}
		}
		return nil
	})
}

func (s *Server) moveCargo(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.mutateRoute(w, r, func(d *route.DeliveryState) error {
		if err := d.MoveGroup(location, req.Cell); err != nil {
			return badRequest{msg: err.Error()}
		}
		return nil
	})
}

func (s *Server) mutateRoute(w http.ResponseWriter, r *http.Request, fn func(d *route.DeliveryState) error) {
	ws, err := s.withWorkspace(func(ws *storage.Workspace) error {
		return fn(ws.Delivery)
	})
	var bad badRequest
	switch {
	case errors.As(err, &bad):
		writeError(w, r, http.StatusBadRequest, bad.msg)
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "failed to save route")
	default:
		writeJSON(w, r, http.StatusOK, newRouteResponse(ws.Delivery))
	}
}

func newRouteResponse(d *route.DeliveryState) routeResponse {
	return routeResponse{
		DeliveryState: d,
		VisibleStops:  d.VisibleStops(),
		GridCells:     d.GridCells(),
	}
}
