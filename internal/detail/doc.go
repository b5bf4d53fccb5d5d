// Package detail serves the per-instrument detail view.
//
// Scalar metrics are fetched once per code and reused across chart modes;
// each (code, mode) series is fetched once and cached for the process
// lifetime. A code that is empty, unknown to the registry or failing at the
// source yields an explicit no-data view rather than an error.
package detail
