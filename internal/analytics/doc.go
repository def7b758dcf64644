// Package analytics summarizes recorded calls per control: counts, success
// rate, latency and status code distribution, computed from the history
// database in a single query.
package analytics
