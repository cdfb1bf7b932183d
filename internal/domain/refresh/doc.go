// Package refresh runs the background loop that keeps the catalog store
// populated from the upstream source.
package refresh
