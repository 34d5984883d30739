package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hauler/internal"
	"hauler/internal/route"
	"hauler/internal/session"
)

const (
	KeySession  = "haulerHelperSession"
	KeyUI       = "haulerHelperUI"
	KeyDelivery = "haulerHelperDelivery"

	stateVersion = 0
)

type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type UIState struct {
	Theme             string `json:"theme"`
	ActiveDeliveryTab string `json:"activeDeliveryTab"`
}

func DefaultUIState() UIState {
	return UIState{Theme: route.DefaultTheme, ActiveDeliveryTab: "route"}
}

func (d *DB) loadRecord(key string, out any) (bool, error) {
	raw, err := d.GetKV(key)
	if err != nil || raw == nil {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal([]byte(*raw), &env); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(env.State, out); err != nil {
		return false, fmt.Errorf("decode %s state: %w", key, err)
	}
	return true, nil
}

func saveRecord(ex sqlx.Execer, key string, state any) error {
	body, err := json.Marshal(state)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{State: body, Version: stateVersion})
	if err != nil {
		return err
	}
	return setKV(ex, key, string(raw))
}

// LoadSession restores the mission list and seeds ids from it. A missing
// record yields an empty session.
func (d *DB) LoadSession(ids *route.IDAllocator) (*session.Session, error) {
	s := &session.Session{}
	if _, err := d.loadRecord(KeySession, s); err != nil {
		return nil, err
	}
	s.Attach(ids)
	return s, nil
}

func (d *DB) SaveSession(s *session.Session) error {
	return saveRecord(d.conn, KeySession, s)
}

func (d *DB) LoadUI() (UIState, error) {
	ui := DefaultUIState()
	if _, err := d.loadRecord(KeyUI, &ui); err != nil {
		return UIState{}, err
	}
	return ui, nil
}

func (d *DB) SaveUI(ui UIState) error {
	return saveRecord(d.conn, KeyUI, ui)
}

// LoadDelivery restores the delivery record and seeds ids from its stops.
func (d *DB) LoadDelivery(ids *route.IDAllocator) (*route.DeliveryState, error) {
	state := route.NewDeliveryState()
	if _, err := d.loadRecord(KeyDelivery, state); err != nil {
		return nil, err
	}
	if state.RouteStepCompletion == nil {
		state.RouteStepCompletion = map[string]bool{}
	}
	if state.CargoGroups == nil {
		state.CargoGroups = map[string]internal.CargoGroup{}
	}
	if state.CargoGroupPositions == nil {
		state.CargoGroupPositions = map[string]int{}
	}
	if state.CargoGridLayout.Cells() <= 0 {
		state.CargoGridLayout = route.DefaultGridLayout
	}
	if state.RouteViewMode == "" {
		state.RouteViewMode = internal.ViewAll
	}
	if ids != nil {
		ids.SeedFromStops(state.RouteStops)
	}
	return state, nil
}

func (d *DB) SaveDelivery(state *route.DeliveryState) error {
	return saveRecord(d.conn, KeyDelivery, state)
}
