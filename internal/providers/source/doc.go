// Package source implements the upstream fetchers the refresh loop pulls
// raw add-on records from: a plain HTTP list endpoint and a git checkout.
package source
