// Package clickstore implements click event recording and reporting.
//
// A click event is identified by its (user, department, campaign) key.
// Recording an event for a key that already exists bumps the stored
// click count and refreshes the context fields instead of inserting a
// second row, so one row per key always holds the cumulative count.
// The service layer owns that semantic; repository implementations
// provide the atomic upsert.
//
// Repository implementations live in repository/postgres/.
package clickstore
