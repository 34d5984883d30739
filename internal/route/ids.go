package route

import (
	"strconv"
	"strings"

	"hauler/internal"
)

const (
	MissionPrefix   = "mission_"
	CommodityPrefix = "commodity_"
	StopPrefix      = "stop_"
)

// IDAllocator mints monotonically increasing "<prefix><n>" identifiers.
// The zero value is ready to use.
type IDAllocator struct {
	next map[string]int
}

func (a *IDAllocator) Next(prefix string) string {
	if a.next == nil {
		a.next = map[string]int{}
	}
	a.next[prefix]++
	return prefix + strconv.Itoa(a.next[prefix])
}

// Observe raises the high-water mark for the prefix of id, if it has one.
func (a *IDAllocator) Observe(prefix, id string) {
	if !strings.HasPrefix(id, prefix) {
		return
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return
	}
	if a.next == nil {
		a.next = map[string]int{}
	}
	if n > a.next[prefix] {
		a.next[prefix] = n
	}
}

func (a *IDAllocator) SeedFromMissions(missions []internal.Mission) {
	for _, m := range missions {
		a.Observe(MissionPrefix, m.ID)
		for _, c := range m.Commodities {
			a.Observe(CommodityPrefix, c.ID)
		}
	}
}

func (a *IDAllocator) SeedFromStops(stops []internal.RouteStop) {
	for _, s := range stops {
		a.Observe(StopPrefix, s.ID)
	}
}
