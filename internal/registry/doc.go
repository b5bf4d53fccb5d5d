// Package registry tracks the instrument codes the dashboard knows about.
//
// The registry is seeded by a blocking initial sync of the "all" tag, then
// kept current from every fresh batch the view-state controller produces and
// an optional periodic reconcile. The detail view consults it to decide
// whether a code has data at all.
package registry
