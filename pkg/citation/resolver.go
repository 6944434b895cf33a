package citation

import (
	"regexp"
	"sort"
	"strconv"

	"book-companion-be/internal/entity"

	"github.com/google/uuid"
)

// Binding ties a per-turn marker to a chunk included in the assembled
// context. Bindings arrive in ranked order, so a binding's position in
// the slice is its 1-based ordinal for fallback markers.
type Binding struct {
	Marker        int
	ChunkId       uuid.UUID
	ChapterIndex  int
	PositionIndex int
	Location      entity.SourceLocation
	Snippet       string
}

// Resolved is one citation in first-occurrence order. DisplayIndex is
// the marker number shown in the normalized text.
type Resolved struct {
	ChunkId       uuid.UUID
	DisplayIndex  int
	ChapterIndex  int
	PositionIndex int
	Location      entity.SourceLocation
	Snippet       string
}

// Result contains the normalized display text and the ordered citation
// list, deduplicated by chunk id preserving first occurrence.
type Result struct {
	Text      string
	Citations []Resolved
}

// Marker patterns, tried in priority order:
//
//	[c: 12]  canonical form bound to a chunk marker, whitespace tolerant
//	【2】     CJK bracket fallback, positional
//	[^2]     footnote fallback, positional
//	[2]      bracket fallback, positional
//	(2)      parenthesis fallback, positional
var (
	canonicalPattern   = regexp.MustCompile(`\[\s*c\s*[:：]\s*(\d+)\s*\]`)
	cjkBracketPattern  = regexp.MustCompile(`【\s*(\d+)\s*】`)
	footnotePattern    = regexp.MustCompile(`\[\^(\d+)\]`)
	bracketPattern     = regexp.MustCompile(`\[(\d+)\]`)
	parenthesisPattern = regexp.MustCompile(`\((\d+)\)`)

	multiSpacePattern = regexp.MustCompile(`[ \t]{2,}`)
)

type matcher struct {
	pattern   *regexp.Regexp
	canonical bool // lookup by bound marker number instead of ordinal
	// stripUnknown removes unresolved matches from the display text.
	// Only safe for forms that cannot appear in natural prose.
	stripUnknown bool
}

var matchers = []matcher{
	{pattern: canonicalPattern, canonical: true, stripUnknown: true},
	{pattern: cjkBracketPattern, stripUnknown: true},
	{pattern: footnotePattern, stripUnknown: true},
	{pattern: bracketPattern},
	{pattern: parenthesisPattern},
}

type match struct {
	start, end int
	number     int
	matcher    matcher
}

// Resolve parses citation markers out of a completed answer and maps
// them back to the supplied context bindings. Markers that do not match
// any binding are dropped, never guessed; an answer with no markers
// passes through unresolved. Resolution never fails.
func Resolve(answer string, bindings []Binding) *Result {
	byMarker := make(map[int]*Binding, len(bindings))
	for i := range bindings {
		byMarker[bindings[i].Marker] = &bindings[i]
	}

	matches := collectMatches(answer)

	// Display numbers reuse the binding's marker so that re-resolving
	// the normalized text maps every [n] back to the same binding that
	// produced it. Renumbering by first occurrence would break that:
	// markers cited out of rank order would flip on a second pass.
	displayByChunk := make(map[uuid.UUID]int)
	var citations []Resolved

	resolveBinding := func(m match) *Binding {
		if m.matcher.canonical {
			return byMarker[m.number]
		}
		// Positional: nth binding in ranked order.
		if m.number >= 1 && m.number <= len(bindings) {
			return &bindings[m.number-1]
		}
		// A fallback number may still name a canonical marker directly.
		return byMarker[m.number]
	}

	var out []byte
	last := 0
	for _, m := range matches {
		b := resolveBinding(m)
		if b == nil {
			if m.matcher.stripUnknown {
				out = append(out, answer[last:m.start]...)
				last = m.end
			}
			continue
		}

		display, seen := displayByChunk[b.ChunkId]
		if !seen {
			display = b.Marker
			displayByChunk[b.ChunkId] = display
			citations = append(citations, Resolved{
				ChunkId:       b.ChunkId,
				DisplayIndex:  display,
				ChapterIndex:  b.ChapterIndex,
				PositionIndex: b.PositionIndex,
				Location:      b.Location,
				Snippet:       b.Snippet,
			})
		}

		out = append(out, answer[last:m.start]...)
		out = append(out, '[')
		out = append(out, strconv.Itoa(display)...)
		out = append(out, ']')
		last = m.end
	}
	out = append(out, answer[last:]...)

	text := multiSpacePattern.ReplaceAllString(string(out), " ")
	return &Result{Text: text, Citations: citations}
}

// collectMatches runs every matcher over the text, keeping higher
// priority matches when spans overlap, ordered by position.
func collectMatches(text string) []match {
	var all []match
	claimed := func(start, end int) bool {
		for _, m := range all {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}

	for _, mt := range matchers {
		// Parenthesized numbers show up in ordinary prose far too often
		// ("at age (2)"), so that form only counts when the answer used
		// no other marker style at all.
		if mt.pattern == parenthesisPattern && len(all) > 0 {
			continue
		}
		for _, loc := range mt.pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if claimed(start, end) {
				continue
			}
			n, err := strconv.Atoi(text[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			all = append(all, match{start: start, end: end, number: n, matcher: mt})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].start < all[j].start })
	return all
}
