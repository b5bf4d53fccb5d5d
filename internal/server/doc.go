// Package server exposes the dashboard over HTTP with gin.
//
// Layout follows handler -> usecase: handlers bind and validate requests,
// the usecase talks to the view-state controller and detail fetcher, and the
// Error middleware turns errors into the {success, error, data} envelope.
//
//	GET  /health
//	GET  /api/v1/tags
//	GET  /api/v1/state
//	PUT  /api/v1/state/tag
//	GET  /api/v1/records?tag=&sort=&order=&page=&page_size=
//	GET  /api/v1/hot-sections?tag=
//	GET  /api/v1/dashboard?tag=&sort=&order=&page=&page_size=
//	GET  /api/v1/instruments/:code?mode=
//	GET  /ws
package server
