// Package api provides the REST client for a remote instrument feed.
//
// The feed exposes the same shape the mock generator produces:
//   - GET /instruments?tag={tag}            record list for one filter tag
//   - GET /instruments/{code}?mode={mode}   scalar metrics plus a chart series
//
// Requests carry an optional bearer API key and an X-Request-ID that stays the
// same across retries of one call. 5xx and 429 responses are retried with
// jittered exponential backoff, waiting longer when the feed sends Retry-After.
package api
