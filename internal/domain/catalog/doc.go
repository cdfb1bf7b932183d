// Package catalog holds the add-on catalog model and the compatibility
// engine built on it.
//
// A refresh cycle turns raw upstream records into an immutable Snapshot,
// published through a Store whose readers never block on construction.
// Resolve computes the package variants usable by one client profile, and
// Shape renders the result in the response shape of the client's gateway
// era.
package catalog
