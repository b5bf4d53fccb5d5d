// Package cache provides the session-scoped memoization tables used by the
// view-state controller and the detail view.
//
// Entries are never evicted. The key domains (15 tags, a few dozen
// instrument codes × 3 chart modes) are small and fixed for a session; a
// larger record universe would need a bound here.
package cache
