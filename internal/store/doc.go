// Package store keeps the run history of isodesign in SQLite.
//
// A design run records the compiled design and every configuration it
// produced, with the metadata the scorer needs. Score runs attach a score
// table to a design run so results can be compared across sessions.
//
// # Ordering
//
// Designs and score runs carry a seq assigned on insert; listings are
// ORDER BY seq ASC. Configurations are ordered by their 1-based index and
// score entries by the seq they were written with.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes (file databases only)
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// # Migrations
//
// schema.sql creates missing tables. Indexes added later are migrations,
// applied in order and tracked in PRAGMA user_version.
package store
