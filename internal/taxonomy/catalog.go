package taxonomy

import (
	"strings"
	"unicode"

	"github.com/avelldahl/framewatch/internal/models"
)

// Catalog is the fixed, ordered set of competing framings. It is assembled
// once at startup; order is significant and is the tie-break order for every
// downstream ranking.
type Catalog struct {
	respects []models.Respect
	byID     map[string]models.Respect
}

func New(respects []models.Respect) *Catalog {
	c := &Catalog{
		respects: append([]models.Respect(nil), respects...),
		byID:     make(map[string]models.Respect, len(respects)),
	}
	for _, r := range c.respects {
		c.byID[r.ID] = r
	}
	return c
}

// Respects returns the framings in catalog order.
func (c *Catalog) Respects() []models.Respect {
	return append([]models.Respect(nil), c.respects...)
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Get(id string) (models.Respect, bool) {
	r, ok := c.byID[id]
	return r, ok
}

func (c *Catalog) Len() int { return len(c.respects) }

// Match is the keyword score of one framing against a piece of text.
type Match struct {
	RespectID string
	Score     float64
	Phrases   []string
}

// Score runs the keyword rule for every framing against text and returns one
// Match per framing in catalog order. A seed scores 1 when it matches any
// token by containment (either direction) and a further 0.5 when it appears
// as a raw substring of the whole lowercased text; the double count is
// intentional, phrase hits reinforce token hits.
func (c *Catalog) Score(text string) []Match {
	tokens := Tokenize(text)
	lowered := strings.ToLower(text)

	matches := make([]Match, 0, len(c.respects))
	for _, r := range c.respects {
		m := Match{RespectID: r.ID}
		for _, seed := range r.KeywordSeeds {
			seed = strings.ToLower(seed)
			hit := false
			for _, tok := range tokens {
				if strings.Contains(tok, seed) || strings.Contains(seed, tok) {
					hit = true
					break
				}
			}
			if hit {
				m.Score += 1
			}
			if strings.Contains(lowered, seed) {
				m.Score += 0.5
				hit = true
			}
			if hit {
				m.Phrases = append(m.Phrases, seed)
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// Top picks the highest-scoring match; earlier catalog position wins ties.
// ok is false when nothing scored above zero.
func Top(matches []Match) (Match, bool) {
	var best Match
	ok := false
	for _, m := range matches {
		if m.Score > best.Score {
			best = m
			ok = true
		}
	}
	return best, ok
}

// Tokenize lowercases, strips punctuation, splits on whitespace and drops
// single-character tokens.
func Tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
