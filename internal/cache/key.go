package cache

import "fmt"

// listingPrefix is the namespace shared by every cached listing page.
// Invalidation removes all keys under this prefix at once.
const listingPrefix = "tasks:page:"

// Sentinel tokens used when a filter parameter is unset, so that the key
// stays deterministic across absent and present filters.
const (
	statusAll  = "all"
	searchNone = "none"
)

// ListingKey builds the cache key for one page of the all-tasks listing.
// The format is fixed and relied upon by invalidation and by clients:
//
//	tasks:page:{page}:limit:{limit}:status:{status|"all"}:search:{search|"none"}
//
// An empty status or search serializes as its sentinel token, so two calls
// with the same effective parameters always produce the same key.
func ListingKey(page, limit int, status, search string) string {
	if status == "" {
		status = statusAll
	}
	if search == "" {
		search = searchNone
	}
	return fmt.Sprintf("%s%d:limit:%d:status:%s:search:%s", listingPrefix, page, limit, status, search)
}

// ListingPattern returns the glob pattern matching every cached listing
// page, across all page/limit/status/search combinations.
func ListingPattern() string {
	return listingPrefix + "*"
}
