// Package cache provides the query cache for the admin task listing.
// Listing pages are cached under deterministic keys derived from the query
// parameters and invalidated wholesale on any task mutation; entries also
// expire on a TTL so a missed invalidation is bounded in time.
package cache
