// Package persistence stores the outcome of a completed verification so it
// survives restarts.
//
// The configuration slot itself is in-memory; this package keeps a JSON
// record of what was published (method, device, hub) that the status
// command reads and the -reset flag clears. Device keys are never written.
package persistence
