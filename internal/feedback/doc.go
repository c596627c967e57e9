// Package feedback records every delivered detection result and summarises
// the history.
//
// Records are immutable snapshots. The Recorder keeps them in memory for
// statistics and appends each one to a Store so the history survives
// restarts: a JSONL audit file by default, or a SQLite database.
package feedback
