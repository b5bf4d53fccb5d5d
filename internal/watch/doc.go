// Package watch is a client for the dashboard's WebSocket state stream.
//
// A Client holds one connection: it decodes state frames, answers server
// pings and sends tag commands. Watch keeps a client connected, reconnecting
// with exponential backoff and re-selecting the configured tag each time.
package watch
