package ingest

import "context"

// OrphanRef names stored objects a client abandoned before saving a record.
type OrphanRef struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// CleanupResult reports how an orphan sweep went. A URL that could not be
// resolved or was already gone lands in Failed; the sweep itself never
// errors.
type CleanupResult struct {
	Deleted int      `json:"deleted_count"`
	Failed  []string `json:"failed_urls"`
}

// CleanupOrphans deletes abandoned objects directly, without touching the
// database. Running it twice over the same list is safe: the second pass
// deletes nothing.
func (p *Pipeline) CleanupOrphans(ctx context.Context, refs []OrphanRef) CleanupResult {
	res := CleanupResult{Failed: []string{}}
	for _, ref := range refs {
		for _, url := range []string{ref.URL, ref.ThumbnailURL} {
			if url == "" {
				continue
			}
			path := p.store.ResolvePath(url)
			if path == "" || !p.store.Delete(ctx, path) {
				res.Failed = append(res.Failed, url)
				continue
			}
			res.Deleted++
		}
	}
	return res
}

// ReleaseURLs is the compensating step of the row-mutation saga: resolve
// each URL and delete the object best-effort. Failures are logged and
// swallowed — the database write is the operation of record, and a missed
// delete only leaves an orphaned object behind.
func (p *Pipeline) ReleaseURLs(ctx context.Context, urls ...string) {
	if !p.store.Enabled() {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		path := p.store.ResolvePath(url)
		if path == "" {
			continue
		}
		if !p.store.Delete(ctx, path) {
			p.log.Warn("release stored object failed", "url", url, "path", path)
		}
	}
}
