package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelldahl/framewatch/internal/models"
)

var day = time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

func TestDedupKeyPrefersCanonicalURL(t *testing.T) {
	a := models.RawMediaItem{Title: "One title", URL: "https://News.example.com/story#frag", PublishedAt: day}
	b := models.RawMediaItem{Title: "Different title", URL: "https://news.example.com/story", PublishedAt: day}

	// Host case and fragment are canonicalized away.
	assert.Equal(t, DedupKey(a), DedupKey(b))
	assert.Equal(t, "https://news.example.com/story", DedupKey(a))
}

func TestDedupKeyFallsBackWithoutUsableURL(t *testing.T) {
	item := models.RawMediaItem{
		Title:       "  Crackdown   on Crossings ",
		Outlet:      "BBC News",
		PublishedAt: day,
	}
	assert.Equal(t, "crackdown on crossings bbc news2026-08-20", DedupKey(item))

	// Relative and non-http URLs do not count as canonical.
	item.URL = "/story/123"
	assert.Equal(t, "crackdown on crossings bbc news2026-08-20", DedupKey(item))
	item.URL = "ftp://archive.example.com/story"
	assert.Equal(t, "crackdown on crossings bbc news2026-08-20", DedupKey(item))
}

func TestDedupKeyDayGranularity(t *testing.T) {
	a := models.RawMediaItem{Title: "Same story", Outlet: "BBC News", PublishedAt: day}
	b := models.RawMediaItem{Title: "Same story", Outlet: "BBC News", PublishedAt: day.Add(5 * time.Hour)}
	c := models.RawMediaItem{Title: "Same story", Outlet: "BBC News", PublishedAt: day.AddDate(0, 0, 1)}

	assert.Equal(t, DedupKey(a), DedupKey(b))
	assert.NotEqual(t, DedupKey(a), DedupKey(c))
}

func TestMergeMediaCuratedWins(t *testing.T) {
	curated := []models.RawMediaItem{
		{ID: "cur1", Title: "Crackdown on crossings", Outlet: "BBC News", PublishedAt: day, RespectID: "security_border"},
	}
	collected := []models.RawMediaItem{
		{ID: "live1", Title: "Crackdown on crossings", Outlet: "BBC News", PublishedAt: day},
		{ID: "live2", Title: "Refugees deserve dignity", Outlet: "The Guardian", PublishedAt: day},
	}

	merged := MergeMedia(curated, collected)
	require.Len(t, merged, 2)
	// The curated duplicate survives with its pre-label intact.
	assert.Equal(t, "cur1", merged[0].ID)
	assert.Equal(t, "security_border", merged[0].RespectID)
	assert.Equal(t, "live2", merged[1].ID)
}

func TestMergeMediaIdempotent(t *testing.T) {
	items := []models.RawMediaItem{
		{ID: "a", Title: "Story one", Outlet: "BBC News", PublishedAt: day},
		{ID: "b", Title: "Story two", Outlet: "Sky News", PublishedAt: day},
	}

	once := MergeMedia(nil, items)
	twice := MergeMedia(nil, append(once, once...))
	assert.Equal(t, once, twice)
}

func TestMergeMediaDropsLaterDuplicatesWithinBatch(t *testing.T) {
	items := []models.RawMediaItem{
		{ID: "a", Title: "Story", Outlet: "BBC News", PublishedAt: day},
		{ID: "b", Title: "story", Outlet: "bbc news", PublishedAt: day.Add(time.Hour)},
	}

	merged := MergeMedia(nil, items)
	require.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ID)
}
