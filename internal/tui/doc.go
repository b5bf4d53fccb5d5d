// Package tui is the terminal dashboard.
//
// The dashboard page shows a header, the tag bar, the four hot-section
// leaderboards in a 2x2 grid and a paged, sortable table. Enter opens the
// detail page for the selected row. Every section renders inside its own
// boundary; a failed section shows an error box until r resets it.
package tui
