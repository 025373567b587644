package passages

import (
	"sort"
	"strings"

	"github.com/avelldahl/framewatch/internal/taxonomy"
)

// Mode selects the segmentation rule.
type Mode string

const (
	// ModeSentence splits on ". " or newline.
	ModeSentence Mode = "sentence"
	// ModeParagraph splits on blank lines.
	ModeParagraph Mode = "paragraph"
)

// Config controls extraction.
type Config struct {
	Mode Mode
	// Window is how many segments before and after a trigger hit are pulled
	// into the passage.
	Window int
}

// Passage is one merged subject-relevant span with its ranked framing
// suggestions. Start/End are byte offsets into the original text.
type Passage struct {
	Start       int
	End         int
	Text        string
	Suggestions []taxonomy.Match
	// Suggested is the top-ranked framing id, empty when nothing scored.
	Suggested string
}

type segment struct {
	start int
	end   int
}

// Extract locates trigger-phrase hits, expands each hit by the configured
// window, merges overlapping or contiguous spans so no character range is
// analysed twice, and re-scores every merged passage against the
// keyword-seed table.
func Extract(fullText string, triggers []string, catalog *taxonomy.Catalog, cfg Config) []Passage {
	if strings.TrimSpace(fullText) == "" || len(triggers) == 0 {
		return nil
	}

	segs := split(fullText, cfg.Mode)
	if len(segs) == 0 {
		return nil
	}

	lowered := make([]string, len(segs))
	for i, s := range segs {
		lowered[i] = strings.ToLower(fullText[s.start:s.end])
	}

	var ranges []segment
	for i := range segs {
		if !containsTrigger(lowered[i], triggers) {
			continue
		}
		lo := i - cfg.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + cfg.Window
		if hi > len(segs)-1 {
			hi = len(segs) - 1
		}
		ranges = append(ranges, segment{start: segs[lo].start, end: segs[hi].end})
	}
	if len(ranges) == 0 {
		return nil
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		// Only overlapping or contiguous ranges merge; the separator
		// character between consecutive segments keeps distinct
		// neighbourhoods apart.
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}

	passages := make([]Passage, 0, len(merged))
	for _, r := range merged {
		text := fullText[r.start:r.end]
		suggestions := rankMatches(catalog.Score(text))
		p := Passage{Start: r.start, End: r.end, Text: text, Suggestions: suggestions}
		if len(suggestions) > 0 && suggestions[0].Score > 0 {
			p.Suggested = suggestions[0].RespectID
		}
		passages = append(passages, p)
	}
	return passages
}

func containsTrigger(loweredSegment string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(loweredSegment, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// rankMatches orders by score descending; the stable sort keeps catalog
// order for ties.
func rankMatches(matches []taxonomy.Match) []taxonomy.Match {
	ranked := append([]taxonomy.Match(nil), matches...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// split cuts fullText into non-empty segments with byte offsets.
func split(text string, mode Mode) []segment {
	var segs []segment
	add := func(start, end int) {
		if strings.TrimSpace(text[start:end]) != "" {
			segs = append(segs, segment{start: start, end: end})
		}
	}

	if mode == ModeParagraph {
		start := 0
		for {
			idx := strings.Index(text[start:], "\n\n")
			if idx < 0 {
				add(start, len(text))
				break
			}
			add(start, start+idx)
			start += idx + 2
		}
		return segs
	}

	// Sentence mode: boundary is ". " or a newline. The period stays with
	// its sentence.
	start := 0
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\n':
			add(start, i)
			start = i + 1
		case text[i] == '.' && i+1 < len(text) && text[i+1] == ' ':
			add(start, i+1)
			start = i + 2
			i++
		}
	}
	if start < len(text) {
		add(start, len(text))
	}
	return segs
}
