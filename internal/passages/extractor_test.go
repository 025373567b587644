package passages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelldahl/framewatch/internal/taxonomy"
)

const manifestoText = "The weather was mild. " +
	"Asylum claims rose sharply. " +
	"Officials blamed the backlog. " +
	"Parliament debated funding. " +
	"Courts reviewed an asylum appeal at the tribunal. " +
	"The session closed late."

func TestExtractWindowOneYieldsTwoPassages(t *testing.T) {
	got := Extract(manifestoText, []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 1})
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, 0, first.Start)
	assert.Contains(t, first.Text, "The weather was mild.")
	assert.Contains(t, first.Text, "Asylum claims rose sharply.")
	assert.Contains(t, first.Text, "Officials blamed the backlog.")
	assert.NotContains(t, first.Text, "Parliament")

	second := got[1]
	assert.Contains(t, second.Text, "Parliament debated funding.")
	assert.Contains(t, second.Text, "Courts reviewed an asylum appeal at the tribunal.")
	assert.Contains(t, second.Text, "The session closed late.")
	assert.Greater(t, second.Start, first.End)

	// Offsets reconstruct the passage from the original text.
	assert.Equal(t, manifestoText[first.Start:first.End], first.Text)
	assert.Equal(t, manifestoText[second.Start:second.End], second.Text)
}

func TestExtractWindowTwoMergesOverlappingSpans(t *testing.T) {
	got := Extract(manifestoText, []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 2})
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, 0, p.Start)
	assert.Contains(t, p.Text, "The weather was mild.")
	assert.Contains(t, p.Text, "The session closed late.")
	assert.Equal(t, manifestoText[p.Start:p.End], p.Text)
}

func TestExtractSuggestionsRankedByScore(t *testing.T) {
	got := Extract(manifestoText, []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 1})
	require.Len(t, got, 2)

	// The second passage talks about courts, an appeal and a tribunal.
	second := got[1]
	assert.Equal(t, taxonomy.RespectRuleOfLaw, second.Suggested)
	require.NotEmpty(t, second.Suggestions)
	assert.Equal(t, taxonomy.RespectRuleOfLaw, second.Suggestions[0].RespectID)
	for i := 1; i < len(second.Suggestions); i++ {
		assert.GreaterOrEqual(t, second.Suggestions[i-1].Score, second.Suggestions[i].Score)
	}
}

func TestExtractAdjacentHitsRemainSeparate(t *testing.T) {
	text := "Asylum claims rose.\nAsylum appeals fell."
	got := Extract(text, []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 0})
	require.Len(t, got, 2)

	// The separator character between the two sentences keeps the spans
	// apart; neither passage absorbs the other.
	assert.Equal(t, "Asylum claims rose.", got[0].Text)
	assert.Equal(t, "Asylum appeals fell.", got[1].Text)
	assert.Equal(t, got[0].End+1, got[1].Start)
}

func TestExtractNoTriggerHits(t *testing.T) {
	got := Extract("Nothing relevant in this text. Truly nothing.", []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 1})
	assert.Empty(t, got)
}

func TestExtractEmptyInputs(t *testing.T) {
	catalog := taxonomy.Default()
	assert.Empty(t, Extract("", []string{"asylum"}, catalog, Config{Mode: ModeSentence, Window: 1}))
	assert.Empty(t, Extract("   \n  ", []string{"asylum"}, catalog, Config{Mode: ModeSentence, Window: 1}))
	assert.Empty(t, Extract(manifestoText, nil, catalog, Config{Mode: ModeSentence, Window: 1}))
}

func TestExtractTriggerMatchingIsCaseInsensitive(t *testing.T) {
	got := Extract("ASYLUM CLAIMS ROSE.", []string{"Asylum"}, taxonomy.Default(), Config{Mode: ModeSentence, Window: 0})
	require.Len(t, got, 1)
}

func TestExtractParagraphMode(t *testing.T) {
	text := "Unrelated opening paragraph.\n\nOur asylum policy will change. Claims will be processed faster.\n\nClosing remarks."
	got := Extract(text, []string{"asylum"}, taxonomy.Default(), Config{Mode: ModeParagraph, Window: 0})
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "processed faster")
	assert.NotContains(t, got[0].Text, "Unrelated")
	assert.NotContains(t, got[0].Text, "Closing")
}

func TestConcatJoinsWithDelimiter(t *testing.T) {
	passages := []Passage{
		{Text: " first passage "},
		{Text: "second passage"},
	}
	got := Concat(passages, 0)
	assert.Equal(t, "first passage"+PassageDelimiter+"second passage", got)
}

func TestConcatBudgetTruncates(t *testing.T) {
	passages := []Passage{{Text: strings.Repeat("x", 50)}}
	got := Concat(passages, 20)
	assert.Equal(t, strings.Repeat("x", 20)+TruncationMarker, got)

	assert.Empty(t, Concat(nil, 20))
}

func TestStripLinks(t *testing.T) {
	in := "Read [our plan](https://example.com/plan) and https://example.com/more or www.example.com/extra"
	got := StripLinks(in)
	assert.Contains(t, got, "our plan")
	assert.NotContains(t, got, "https://")
	assert.NotContains(t, got, "www.example.com")
}

func TestFlattenMarkdown(t *testing.T) {
	in := "# Border Plan\n\nWe will **stop** the boats.\n\n- tougher patrols\n- faster [processing](https://example.com/details)\n"
	got := FlattenMarkdown(in)

	assert.Contains(t, got, "Border Plan")
	assert.Contains(t, got, "stop")
	assert.Contains(t, got, "processing")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, "https://")
}
