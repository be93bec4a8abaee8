// Package catalog fetches the remote token-listing catalog and detects
// newly listed entries between consecutive snapshots.
//
// The upstream API returns a {"success": bool, "data": [...]} envelope with
// loosely typed records. Normalize coerces each raw record into a canonical
// Entry; records without a usable id are dropped because they cannot be
// matched across snapshots.
package catalog
