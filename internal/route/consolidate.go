package route

import (
	"strings"

	"hauler/internal"
)

type Aliaser interface {
	NormalizeLocation(raw string) string
	NormalizeCommodity(raw string) string
}

type Prior struct {
	Groups    map[string]internal.CargoGroup
	Positions map[string]int
}

type Options struct {
	// Aliases canonicalises hand-entered names before grouping. Nil keeps
	// names as entered (trimmed).
	Aliases      Aliaser
	Palette      []string
	PruneOrphans bool
}

type Result struct {
	Stops     []internal.RouteStop
	Groups    map[string]internal.CargoGroup
	Positions map[string]int
}

// orderedItems is a multimap that remembers first-insertion order of keys.
type orderedItems struct {
	keys  []string
	items map[string][]internal.RouteItem
}

func newOrderedItems() *orderedItems {
	return &orderedItems{items: map[string][]internal.RouteItem{}}
}

func (o *orderedItems) add(key string, item internal.RouteItem) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = append(o.items[key], item)
}

// Consolidate groups every mission row into one stop per location, pickups
// first, and derives cargo groups and grid positions for delivery
// locations. prior is read, never modified.
func Consolidate(missions []internal.Mission, prior Prior, opts Options, alloc *IDAllocator) Result {
	if alloc == nil {
		alloc = &IDAllocator{}
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = Palette(DefaultTheme)
	}

	pickups := newOrderedItems()
	deliveries := newOrderedItems()

	for _, mission := range missions {
		for _, row := range mission.Commodities {
			commodity := strings.TrimSpace(row.Commodity)
			if commodity == "" || row.Quantity <= 0 {
				continue
			}
			maxBox := row.MaxBoxSize
			if maxBox <= 0 {
				maxBox = internal.DefaultMaxBoxSize
			}
			item := internal.RouteItem{
				MissionID:  mission.ID,
				Commodity:  opts.commodity(commodity),
				Quantity:   row.Quantity,
				MaxBoxSize: maxBox,
			}
			if pickup := opts.location(row.Pickup); pickup != "" {
				pickups.add(pickup, item)
			}
			if destination := opts.location(row.Destination); destination != "" {
				deliveries.add(destination, item)
			}
		}
	}

	stops := make([]internal.RouteStop, 0, len(pickups.keys)+len(deliveries.keys))
	for _, location := range pickups.keys {
		stops = append(stops, internal.RouteStop{
			ID:       alloc.Next(StopPrefix),
			Type:     internal.StopPickup,
			Location: location,
			Items:    pickups.items[location],
		})
	}
	for _, location := range deliveries.keys {
		stops = append(stops, internal.RouteStop{
			ID:       alloc.Next(StopPrefix),
			Type:     internal.StopDelivery,
			Location: location,
			Items:    deliveries.items[location],
		})
	}

	groups := make(map[string]internal.CargoGroup, len(deliveries.keys))
	colorIndex := 0
	for _, location := range deliveries.keys {
		items := make([]internal.CargoItem, 0, len(deliveries.items[location]))
		for _, it := range deliveries.items[location] {
			items = append(items, internal.CargoItem{MissionID: it.MissionID, Commodity: it.Commodity, Quantity: it.Quantity})
		}
		if existing, ok := prior.Groups[location]; ok {
			groups[location] = internal.CargoGroup{Color: existing.Color, Label: existing.Label, Items: items}
			continue
		}
		groups[location] = internal.CargoGroup{
			Color: palette[colorIndex%len(palette)],
			Label: location,
			Items: items,
		}
		colorIndex++
	}

	return Result{
		Stops:     stops,
		Groups:    groups,
		Positions: assignPositions(deliveries.keys, prior.Positions, opts.PruneOrphans),
	}
}

// assignPositions keeps every prior cell and gives each new location the
// lowest free cell, in first-seen order. Prior cells of locations that are
// gone stay claimed unless pruneOrphans is set.
func assignPositions(locations []string, prior map[string]int, pruneOrphans bool) map[string]int {
	current := make(map[string]struct{}, len(locations))
	for _, location := range locations {
		current[location] = struct{}{}
	}

	positions := map[string]int{}
	occupied := map[int]struct{}{}
	for location, cell := range prior {
		if _, ok := current[location]; !ok && pruneOrphans {
			continue
		}
		positions[location] = cell
		occupied[cell] = struct{}{}
	}

	next := 0
	for _, location := range locations {
		if _, ok := positions[location]; ok {
			continue
		}
		for {
			if _, taken := occupied[next]; !taken {
				break
			}
			next++
		}
		positions[location] = next
		occupied[next] = struct{}{}
		next++
	}
	return positions
}

func (o Options) location(raw string) string {
	if o.Aliases == nil {
		return strings.TrimSpace(raw)
	}
	return o.Aliases.NormalizeLocation(raw)
}

func (o Options) commodity(raw string) string {
	if o.Aliases == nil {
		return strings.TrimSpace(raw)
	}
	return o.Aliases.NormalizeCommodity(raw)
}
