// Package http contains the gin handlers for the catalog's public
// surface: the filtered add-on list, the license proxy, usage analytics,
// and the human-readable listing page.
package http
