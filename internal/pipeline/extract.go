package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"hauler/internal"
	"hauler/internal/util"
)

const DefaultLookbackChars = 1000

var (
	rewardPattern  = regexp.MustCompile(`(?i)Reward[^\n]{0,10}?(\d{2,3},\d{3}|\d{5,})`)
	misreadPattern = regexp.MustCompile(`(?i)(?:EEL\]|REE|RRE)[^\n]{0,10}?(\d{2,3},\d{3}|\d{5,})`)
	deliverPattern = regexp.MustCompile(`(?i)Deliver\s+(\d+/\d+|\d+)\s+SCU\s+(?:of\s+)?([\w\s()]+?)\s+to\s+([\w\s\-.']+?)\s+(?:on|above)\s+`)
)

type Aliaser interface {
	NormalizeLocation(raw string) string
	NormalizeCommodity(raw string) string
}

type Extractor struct {
	aliases  Aliaser
	lookback int
}

func NewExtractor(aliases Aliaser, lookback int) *Extractor {
	if lookback <= 0 {
		lookback = DefaultLookbackChars
	}
	return &Extractor{aliases: aliases, lookback: lookback}
}

// ExtractMission turns recognised mission text into transfer segments.
// Malformed text yields an empty result, never an error.
func (e *Extractor) ExtractMission(text string) internal.ParsedMission {
	payout := extractPayout(text)
	text = RepairLineBreaks(text)
	return internal.ParsedMission{Payout: payout, Segments: e.extractSegments(text)}
}

func extractPayout(text string) *int {
	for _, re := range []*regexp.Regexp{rewardPattern, misreadPattern} {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if n, ok := util.ParseGroupedInt(m[1]); ok {
			return util.IntPtr(n)
		}
	}
	return nil
}

func (e *Extractor) extractSegments(text string) []internal.ParsedSegment {
	segments := []internal.ParsedSegment{}
	for _, m := range deliverPattern.FindAllStringSubmatchIndex(text, -1) {
		deliverPos := m[0]
		quantity := parseQuantity(text[m[2]:m[3]])
		rawCommodity := util.NormalizeSpaces(util.StripParentheticals(text[m[4]:m[5]]))
		commodity := e.aliases.NormalizeCommodity(rawCommodity)
		delivery := e.aliases.NormalizeLocation(util.NormalizeSpaces(text[m[6]:m[7]]))
		pickup := e.findPickup(text, deliverPos, rawCommodity, commodity)

		if pickup == "" || delivery == "" || commodity == "" || quantity <= 0 {
			continue
		}
		segments = append(segments, internal.ParsedSegment{
			Commodity: commodity,
			Pickup:    pickup,
			Delivery:  delivery,
			Quantity:  quantity,
		})
	}
	return segments
}

// parseQuantity reads "016" as 16 and the progress form "0/16" as its total.
func parseQuantity(token string) int {
	if idx := strings.Index(token, "/"); idx >= 0 {
		token = token[idx+1:]
	}
	token = strings.TrimLeft(strings.TrimSpace(token), "0")
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return n
}

func (e *Extractor) findPickup(text string, deliverPos int, names ...string) string {
	start := deliverPos - e.lookback
	if start < 0 {
		start = 0
	}
	before := text[start:deliverPos]

	re := collectPattern(names...)
	if re == nil {
		return ""
	}
	matches := re.FindAllStringSubmatch(before, -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1]
	return e.aliases.NormalizeLocation(util.NormalizeSpaces(last[1]))
}

func collectPattern(names ...string) *regexp.Regexp {
	seen := map[string]struct{}{}
	alts := make([]string, 0, len(names))
	for _, name := range names {
		words := strings.Fields(name)
		if len(words) == 0 {
			continue
		}
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		alt := strings.Join(words, `\s+`)
		key := strings.ToLower(alt)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)Collect\s+(?:[\d/]+\s+SCU\s+(?:of\s+)?)?(?:` + strings.Join(alts, "|") +
		`)\s+(?:\([^)]+\)\s+)?from\s+([\w\s\-.']+?)(?:\.|\n|\s+(?:on|above)\s)`)
}
