// Package stream pushes dashboard state to WebSocket clients.
//
// Each connection subscribes to the view-state controller and receives a
// "state" message on every change. Clients may send
// {"type":"setTag","tag":"..."} to switch the shared selection. The server
// pings every PingInterval and drops connections that stop answering.
package stream
