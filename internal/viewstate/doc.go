// Package viewstate owns the dashboard's selected tag and current batch.
//
// The Controller re-fetches on every tag change and publishes State snapshots
// to subscribers. Per-tag batches are memoized in an injected cache.TagCache;
// the first selection of a tag pays the source latency, later selections
// commit synchronously. A fetch that completes after its tag was deselected is
// discarded, so a slow response never overwrites newer state.
package viewstate
