// Package model defines shared data types used across the dashboard.
//
// Conventions:
//   - Series timestamps: int64 seconds since Unix epoch
//   - Percentiles: float64 in [0, 100], clamped by consumers
//   - Record lists travel as *Batch; a batch is never mutated after creation,
//     so pointer equality is list identity
package model
