// Package database provides SQLite-based validation history for sectioncheck.
//
// Every validated document is stored as a JSON report together with its
// content hash and a severity summary, grouped by run id. The history backs
// the compare command and lets validate skip documents whose bytes have not
// changed since the last run.
//
// The store uses modernc.org/sqlite, so the database is a single CGO-free file
// under $XDG_DATA_HOME/sectioncheck.
package database
