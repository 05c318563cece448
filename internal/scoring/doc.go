// Package scoring ranks regions for a user by combining an objective,
// user-independent quality score with a personalized matching score.
//
// Everything here is pure computation over in-memory records: no I/O, no
// logging and no state shared between calls. Configuration is validated once
// by the constructors; per-record data gaps resolve to neutral defaults.
package scoring
