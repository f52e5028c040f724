// Package directory manages the records campaigns are built from:
// campaign definitions, email templates, and the employee roster.
//
// These are plain CRUD concerns; the interesting semantics (click
// aggregation, bulk dispatch) live in their own packages and consume
// this one's records by value.
package directory
