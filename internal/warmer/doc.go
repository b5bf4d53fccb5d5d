// Package warmer pre-fetches every filter tag through the dashboard's cache
// so the first switch to any tag is served without waiting on the source.
package warmer
