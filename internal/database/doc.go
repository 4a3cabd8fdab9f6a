// Package database stores the history of URL checks in SQLite.
//
// The store is a single file, history.db, under the configured directory
// (the XDG data directory by default). It uses modernc.org/sqlite, so no
// CGO toolchain is needed, and WAL journaling so that readers of GET
// /history do not block the writer.
//
// Only a bounded number of recent checks is kept. Every insert trims the
// table back to Options.Limit entries, oldest first.
package database
