// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package sqlitedriver registers a SQLite database/sql driver under the name
// "sqlite3" for the saved-chart store. When built with CGO (the default on
// macOS/Linux) it uses go-sqlcipher, which can encrypt the chart database at
// rest. Without CGO it falls back to the pure-Go modernc.org/sqlite driver,
// functional but without encryption support.
//
// Import this package for its side effects only:
//
//	import _ "github.com/vizier-labs/vizier/internal/sqlitedriver"
package sqlitedriver
