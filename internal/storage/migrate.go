package storage

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"hauler/internal"
	"hauler/internal/route"
	"hauler/internal/session"
)

const (
	legacyKeyTheme      = "haulerHelperTheme"
	legacyKeyGridLayout = "haulerHelperCargoGridLayout"
	legacyKeyViewMode   = "haulerHelperRouteViewMode"
)

var legacyOnlyKeys = []string{
	legacyKeyTheme,
	legacyKeyGridLayout,
	"haulerHelperCargoGridExpanded",
	legacyKeyViewMode,
	"haulerHelperOCRImport",
	"haulerHelperOCRImportAll",
	"haulerHelperDeliveryLayout",
	"haulerHelperDeliveryOrder",
	"haulerHelperCommodityOrder",
	"haulerHelperOrganizerGroupBy",
}

// looseInt accepts numbers, numeric strings ("12", "12 SCU") and null.
type looseInt struct {
	value int
	set   bool
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		l.value, l.set = int(f), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[0] == '-' || s[0] == '+')) {
		end++
	}
	if n, err := strconv.Atoi(s[:end]); err == nil {
		l.value, l.set = n, true
	}
	return nil
}

func (l looseInt) or(fallback int) int {
	if !l.set || l.value == 0 {
		return fallback
	}
	return l.value
}

type legacyCommodity struct {
	ID          string   `json:"id"`
	Pickup      string   `json:"pickup"`
	Destination string   `json:"destination"`
	Commodity   string   `json:"commodity"`
	Quantity    looseInt `json:"quantity"`
	MaxBoxSize  looseInt `json:"maxBoxSize"`
}

type legacyMission struct {
	ID          string            `json:"id"`
	Payout      string            `json:"payout"`
	Commodities []legacyCommodity `json:"commodities"`
}

type legacyColor struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

type legacySession struct {
	Ship           *string         `json:"ship"`
	System         string          `json:"system"`
	Category       string          `json:"category"`
	Missions       []legacyMission `json:"missions"`
	LocationColors json.RawMessage `json:"locationColors"`
	RouteViewMode  string          `json:"routeViewMode"`
}

func isLegacy(root map[string]json.RawMessage) bool {
	_, hasState := root["state"]
	_, hasVersion := root["version"]
	if hasState && hasVersion {
		return false
	}
	for _, key := range []string{"missions", "ship", "system"} {
		if _, ok := root[key]; ok {
			return true
		}
	}
	return false
}

// MigrateLegacy rewrites a flat pre-versioned session into the three
// versioned records and drops the legacy-only keys. It reports whether a
// migration happened. Unreadable data leaves storage untouched.
func (d *DB) MigrateLegacy() (bool, error) {
	raw, err := d.GetKV(KeySession)
	if err != nil || raw == nil {
		return false, err
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(*raw), &root); err != nil {
		return false, nil
	}
	if !isLegacy(root) {
		return false, nil
	}
	var legacy legacySession
	if err := json.Unmarshal([]byte(*raw), &legacy); err != nil {
		return false, nil
	}

	s := &session.Session{
		Missions:         make([]internal.Mission, 0, len(legacy.Missions)),
		SelectedShipID:   legacy.Ship,
		SelectedSystem:   legacy.System,
		SelectedCategory: legacy.Category,
	}
	for _, m := range legacy.Missions {
		mission := internal.Mission{ID: m.ID, Payout: m.Payout, Commodities: make([]internal.CommodityRow, 0, len(m.Commodities))}
		for _, c := range m.Commodities {
			mission.Commodities = append(mission.Commodities, internal.CommodityRow{
				ID:          c.ID,
				Commodity:   c.Commodity,
				Pickup:      c.Pickup,
				Destination: c.Destination,
				Quantity:    c.Quantity.or(0),
				MaxBoxSize:  c.MaxBoxSize.or(internal.DefaultMaxBoxSize),
			})
		}
		s.Missions = append(s.Missions, mission)
	}
	if err := d.SaveSession(s); err != nil {
		return false, err
	}

	if existing, err := d.GetKV(KeyUI); err != nil {
		return true, err
	} else if existing == nil {
		ui := DefaultUIState()
		if theme, err := d.GetKV(legacyKeyTheme); err != nil {
			return true, err
		} else if theme != nil {
			ui.Theme = *theme
		}
		if err := d.SaveUI(ui); err != nil {
			return true, err
		}
	}

	if existing, err := d.GetKV(KeyDelivery); err != nil {
		return true, err
	} else if existing == nil {
		state, err := d.legacyDelivery(legacy)
		if err != nil {
			return true, err
		}
		if err := d.SaveDelivery(state); err != nil {
			return true, err
		}
	}

	return true, d.DeleteKV(legacyOnlyKeys...)
}

func (d *DB) legacyDelivery(legacy legacySession) (*route.DeliveryState, error) {
	state := route.NewDeliveryState()

	grid, err := d.GetKV(legacyKeyGridLayout)
	if err != nil {
		return nil, err
	}
	if grid != nil {
		var g internal.GridLayout
		if json.Unmarshal([]byte(*grid), &g) == nil && g.Cols > 0 && g.Rows > 0 {
			state.CargoGridLayout = g
		}
	}

	mode, err := d.GetKV(legacyKeyViewMode)
	if err != nil {
		return nil, err
	}
	switch {
	case mode != nil:
		state.RouteViewMode = internal.RouteViewMode(*mode)
	case legacy.RouteViewMode != "":
		state.RouteViewMode = internal.RouteViewMode(legacy.RouteViewMode)
	}

	for i, entry := range orderedColors(legacy.LocationColors) {
		label := entry.value.Label
		if label == "" {
			label = entry.location
		}
		state.CargoGroups[entry.location] = internal.CargoGroup{Color: entry.value.Color, Label: label, Items: []internal.CargoItem{}}
		state.CargoGroupPositions[entry.location] = i
	}
	return state, nil
}

type colorEntry struct {
	location string
	value    legacyColor
}

// orderedColors decodes a location -> colour object keeping document order,
// which fixes the migrated grid positions.
func orderedColors(raw json.RawMessage) []colorEntry {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var out []colorEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		location, ok := tok.(string)
		if !ok {
			return out
		}
		var value legacyColor
		if err := dec.Decode(&value); err != nil {
			return out
		}
		out = append(out, colorEntry{location: location, value: value})
	}
	return out
}
