// Package table implements the instrument table's sort and pagination state.
//
// A View holds at most one active sort column plus the current page. Sorting
// always works on a copy of the batch records, so the batch shared through the
// tag cache is never reordered. A View is owned by one client (a terminal
// session or a single HTTP request) and is not safe for concurrent use.
package table
