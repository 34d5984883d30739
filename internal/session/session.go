package session

import (
	"fmt"

	"hauler/internal"
	"hauler/internal/route"
	"hauler/internal/util"
)

const MaxCommodityRows = 8

type CommodityField string

const (
	FieldCommodity   CommodityField = "commodity"
	FieldPickup      CommodityField = "pickup"
	FieldDestination CommodityField = "destination"
	FieldQuantity    CommodityField = "quantity"
	FieldMaxBoxSize  CommodityField = "maxBoxSize"
)

// Session is the player's working mission list plus the ship and filter
// picks that travel with it.
type Session struct {
	Missions         []internal.Mission `json:"missions"`
	SelectedShipID   *string            `json:"selectedShipId"`
	SelectedSystem   string             `json:"selectedSystem"`
	SelectedCategory string             `json:"selectedCategory"`

	ids *route.IDAllocator
}

func New(ids *route.IDAllocator) *Session {
	s := &Session{}
	s.Attach(ids)
	return s
}

// Attach binds an allocator and seeds it from the missions already held.
func (s *Session) Attach(ids *route.IDAllocator) {
	if ids == nil {
		ids = &route.IDAllocator{}
	}
	ids.SeedFromMissions(s.Missions)
	s.ids = ids
}

func (s *Session) alloc() *route.IDAllocator {
	if s.ids == nil {
		s.Attach(nil)
	}
	return s.ids
}

func (s *Session) Mission(id string) (*internal.Mission, bool) {
	for i := range s.Missions {
		if s.Missions[i].ID == id {
			return &s.Missions[i], true
		}
	}
	return nil, false
}

func (s *Session) AddMission() internal.Mission {
	m := internal.Mission{
		ID: s.alloc().Next(route.MissionPrefix),
		Commodities: []internal.CommodityRow{{
			ID:         s.alloc().Next(route.CommodityPrefix),
			MaxBoxSize: internal.DefaultMaxBoxSize,
		}},
	}
	s.Missions = append(s.Missions, m)
	return m
}

func (s *Session) RemoveMission(id string) {
	kept := s.Missions[:0]
	for _, m := range s.Missions {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.Missions = kept
}

// ReorderMissions keeps only the missions named in ids, in that order.
func (s *Session) ReorderMissions(ids []string) {
	byID := make(map[string]internal.Mission, len(s.Missions))
	for _, m := range s.Missions {
		byID[m.ID] = m
	}
	reordered := make([]internal.Mission, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			reordered = append(reordered, m)
			delete(byID, id)
		}
	}
	s.Missions = reordered
}

func (s *Session) UpdatePayout(missionID, payout string) error {
	m, ok := s.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission not found: %s", missionID)
	}
	m.Payout = payout
	return nil
}

// AddCommodityRow appends a row prefilled from the previous one. The
// mission is left unchanged once it holds MaxCommodityRows rows.
func (s *Session) AddCommodityRow(missionID string) (internal.CommodityRow, error) {
	m, ok := s.Mission(missionID)
	if !ok {
		return internal.CommodityRow{}, fmt.Errorf("mission not found: %s", missionID)
	}
	if len(m.Commodities) >= MaxCommodityRows {
		return internal.CommodityRow{}, fmt.Errorf("mission %s already has %d rows", missionID, MaxCommodityRows)
	}
	next := internal.CommodityRow{
		ID:         s.alloc().Next(route.CommodityPrefix),
		MaxBoxSize: internal.DefaultMaxBoxSize,
	}
	if n := len(m.Commodities); n > 0 {
		prev := m.Commodities[n-1]
		next.Commodity = prev.Commodity
		next.Pickup = prev.Pickup
		next.Destination = prev.Destination
		next.MaxBoxSize = prev.MaxBoxSize
	}
	m.Commodities = append(m.Commodities, next)
	return next, nil
}

func (s *Session) RemoveCommodityRow(missionID, rowID string) error {
	m, ok := s.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission not found: %s", missionID)
	}
	kept := m.Commodities[:0]
	for _, c := range m.Commodities {
		if c.ID != rowID {
			kept = append(kept, c)
		}
	}
	m.Commodities = kept
	return nil
}

func (s *Session) UpdateCommodityRow(missionID, rowID string, field CommodityField, value any) error {
	m, ok := s.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission not found: %s", missionID)
	}
	for i := range m.Commodities {
		if m.Commodities[i].ID != rowID {
			continue
		}
		return setField(&m.Commodities[i], field, value)
	}
	return fmt.Errorf("commodity row not found: %s", rowID)
}

func setField(row *internal.CommodityRow, field CommodityField, value any) error {
	switch field {
	case FieldCommodity, FieldPickup, FieldDestination:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s wants a string, got %T", field, value)
		}
		switch field {
		case FieldCommodity:
			row.Commodity = str
		case FieldPickup:
			row.Pickup = str
		default:
			row.Destination = str
		}
	case FieldQuantity, FieldMaxBoxSize:
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("%s wants an int, got %T", field, value)
		}
		if field == FieldQuantity {
			row.Quantity = n
		} else {
			if !util.IsBoxSize(n) {
				return fmt.Errorf("invalid box size %d", n)
			}
			row.MaxBoxSize = n
		}
	default:
		return fmt.Errorf("unknown commodity field: %s", field)
	}
	return nil
}

// ImportParsed appends one mission per parsed result and returns the new
// missions.
func (s *Session) ImportParsed(parsed []internal.ParsedMission) []internal.Mission {
	added := make([]internal.Mission, 0, len(parsed))
	for _, p := range parsed {
		m := internal.Mission{
			ID:          s.alloc().Next(route.MissionPrefix),
			Commodities: make([]internal.CommodityRow, 0, len(p.Segments)),
		}
		if p.Payout != nil {
			m.Payout = util.FormatKiloPayout(*p.Payout)
		}
		for _, seg := range p.Segments {
			m.Commodities = append(m.Commodities, internal.CommodityRow{
				ID:          s.alloc().Next(route.CommodityPrefix),
				Commodity:   seg.Commodity,
				Pickup:      seg.Pickup,
				Destination: seg.Delivery,
				Quantity:    seg.Quantity,
				MaxBoxSize:  internal.DefaultMaxBoxSize,
			})
		}
		added = append(added, m)
	}
	s.Missions = append(s.Missions, added...)
	return added
}

// ImportMissions appends copies of missions under fresh ids.
func (s *Session) ImportMissions(missions []internal.Mission) []internal.Mission {
	added := make([]internal.Mission, 0, len(missions))
	for _, m := range missions {
		copied := internal.Mission{
			ID:          s.alloc().Next(route.MissionPrefix),
			Payout:      m.Payout,
			Commodities: make([]internal.CommodityRow, 0, len(m.Commodities)),
		}
		for _, c := range m.Commodities {
			c.ID = s.alloc().Next(route.CommodityPrefix)
			if c.MaxBoxSize <= 0 {
				c.MaxBoxSize = internal.DefaultMaxBoxSize
			}
			copied.Commodities = append(copied.Commodities, c)
		}
		added = append(added, copied)
	}
	s.Missions = append(s.Missions, added...)
	return added
}

func (s *Session) ClearMissions() {
	s.Missions = nil
}

// Clear drops missions and the ship and filter picks.
func (s *Session) Clear() {
	s.Missions = nil
	s.SelectedShipID = nil
	s.SelectedSystem = ""
	s.SelectedCategory = ""
}

func (s *Session) TotalPayout() float64 {
	total := 0.0
	for _, m := range s.Missions {
		total += util.ParsePayoutShorthand(m.Payout)
	}
	return total
}

func (s *Session) TotalSCU() int {
	total := 0
	for _, m := range s.Missions {
		for _, c := range m.Commodities {
			total += c.Quantity
		}
	}
	return total
}
