// Package pipeline implements the query-shaping pipeline every data source
// passes through: identify -> filter -> rank -> reduce -> assemble. The
// Service type sequences the stages; each stage is a pure function over an
// in-memory collection so it can be tested with arbitrary thresholds.
package pipeline
