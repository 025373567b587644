package ingest

import (
	"net/url"
	"strings"

	"github.com/avelldahl/framewatch/internal/models"
)

// DedupKey builds the composite dedup key for a headline: the canonical URL
// when present and well-formed, otherwise lowercased title+outlet+day with
// whitespace collapsed.
func DedupKey(item models.RawMediaItem) string {
	if canonical := canonicalURL(item.URL); canonical != "" {
		return canonical
	}
	raw := item.Title + item.Outlet + item.PublishedAt.Format("2006-01-02")
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

func canonicalURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	return parsed.String()
}

// MergeMedia deduplicates curated and collected headlines into one batch.
// Curated items are checked first so manual overrides are never shadowed by
// a later automated fetch of the same story; within each group the first
// seen item wins and later duplicates are dropped silently.
func MergeMedia(curated, collected []models.RawMediaItem) []models.RawMediaItem {
	seen := make(map[string]bool, len(curated)+len(collected))
	var merged []models.RawMediaItem
	for _, item := range curated {
		key := DedupKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, item)
	}
	for _, item := range collected {
		key := DedupKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, item)
	}
	return merged
}
