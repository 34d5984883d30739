package pipeline

import (
	"regexp"
)

// lineBreakJoin glues a known prefix back onto its suffix when the OCR
// engine wrapped the name onto the next line. When fixed is set it replaces
// the matched prefix verbatim (used to correct misreads such as SM0-).
type lineBreakJoin struct {
	prefix string
	suffix string
	sep    string
	fixed  string
}

var lineBreakJoins = []lineBreakJoin{
	{prefix: `Sakura Sun`, suffix: `Goldenrod`, sep: " ", fixed: "Sakura Sun"},
	{prefix: `Greycat Stanton IV`, suffix: `Production`, sep: " ", fixed: "Greycat Stanton IV"},
	{prefix: `Rayari \w+`, suffix: `Research`, sep: " "},
	{prefix: `NB Int\.?`, suffix: `Spaceport`, sep: " ", fixed: "NB Int."},

	{prefix: `SMO-`, suffix: `\d+`, fixed: "SMO-"},
	{prefix: `SM0-`, suffix: `\d+`, fixed: "SMO-"},
	{prefix: `SMCa-`, suffix: `\d+`, fixed: "SMCa-"},
	{prefix: `S4DC`, suffix: `\d+`, fixed: "S4DC"},
	{prefix: `S4LD`, suffix: `\d+`, fixed: "S4LD"},

	{prefix: `Mining`, suffix: `SMO-?\d+|SMCa-?\d+`, sep: " ", fixed: "Mining"},
	{prefix: `Facility`, suffix: `SMO-?\d+|S4DC\d+`, sep: " ", fixed: "Facility"},
}

type compiledJoin struct {
	re   *regexp.Regexp
	repl string
}

var compiledJoins = compileJoins(lineBreakJoins)

func compileJoins(joins []lineBreakJoin) []compiledJoin {
	out := make([]compiledJoin, 0, len(joins))
	for _, j := range joins {
		re := regexp.MustCompile(`(?i)(` + j.prefix + `)[ \t]*\r?\n\s*(` + j.suffix + `)`)
		head := "${1}"
		if j.fixed != "" {
			head = j.fixed
		}
		out = append(out, compiledJoin{re: re, repl: head + j.sep + "${2}"})
	}
	return out
}

// RepairLineBreaks rejoins known names that the recogniser split across lines.
func RepairLineBreaks(text string) string {
	for _, j := range compiledJoins {
		text = j.re.ReplaceAllString(text, j.repl)
	}
	return text
}
