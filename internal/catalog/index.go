package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"hauler/internal"
	"hauler/internal/util"
)

const suggestThreshold = 0.6

// Index is the alias normalizer. Lookups are total: unknown names come
// back trimmed and otherwise unchanged.
type Index struct {
	byKind     map[internal.AliasKind]map[string]string
	canonicals map[internal.AliasKind][]string
}

func BuildIndex(extra []internal.AliasRecord) *Index {
	idx := &Index{
		byKind: map[internal.AliasKind]map[string]string{
			internal.AliasLocation:  {},
			internal.AliasCommodity: {},
		},
		canonicals: map[internal.AliasKind][]string{},
	}

	add := func(kind internal.AliasKind, alias, canonical string) {
		key := util.FoldKey(alias)
		canonical = util.NormalizeSpaces(canonical)
		if key == "" || canonical == "" {
			return
		}
		if _, exists := idx.byKind[kind][key]; exists {
			return
		}
		idx.byKind[kind][key] = canonical
	}

	for alias, canonical := range LocationAliases {
		add(internal.AliasLocation, alias, canonical)
	}
	for alias, canonical := range CommodityAliases {
		add(internal.AliasCommodity, alias, canonical)
	}
	for _, rec := range extra {
		add(rec.Kind, rec.Alias, rec.Canonical)
	}

	// Canonical names always map to themselves, and every alias points at the
	// spelling that owns its canonical key. Together this keeps lookups idempotent.
	for kind, table := range idx.byKind {
		seen := map[string]struct{}{}
		values := make([]string, 0, len(table))
		for _, v := range table {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			table[util.FoldKey(v)] = v
		}
		for k, v := range table {
			table[k] = table[util.FoldKey(v)]
		}

		uniq := map[string]struct{}{}
		for _, v := range table {
			uniq[v] = struct{}{}
		}
		names := make([]string, 0, len(uniq))
		for v := range uniq {
			names = append(names, v)
		}
		sort.Strings(names)
		idx.canonicals[kind] = names
	}

	return idx
}

func (i *Index) NormalizeLocation(raw string) string {
	return i.normalize(internal.AliasLocation, raw)
}

func (i *Index) NormalizeCommodity(raw string) string {
	return i.normalize(internal.AliasCommodity, raw)
}

func (i *Index) Normalize(kind internal.AliasKind, raw string) string {
	return i.normalize(kind, raw)
}

func (i *Index) normalize(kind internal.AliasKind, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := i.byKind[kind][util.FoldKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

func (i *Index) Known(kind internal.AliasKind, raw string) bool {
	_, ok := i.byKind[kind][util.FoldKey(raw)]
	return ok
}

func (i *Index) Canonicals(kind internal.AliasKind) []string {
	return append([]string(nil), i.canonicals[kind]...)
}

// Suggest returns the closest canonical name for an unknown spelling, or
// ok=false when nothing is close enough.
func (i *Index) Suggest(kind internal.AliasKind, raw string) (string, float64, bool) {
	query := util.FoldKey(raw)
	if query == "" {
		return "", 0, false
	}

	best, bestScore := "", 0.0
	for _, candidate := range i.canonicals[kind] {
		score := similarity(query, util.FoldKey(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < suggestThreshold {
		return "", bestScore, false
	}
	return best, bestScore, true
}

func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	edit := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	return 0.6*util.DiceCoefficient(a, b) + 0.4*edit
}
