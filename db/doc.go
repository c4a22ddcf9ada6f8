// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the backend.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on SQLite (modernc.org/sqlite) and PostgreSQL
(lib/pq).

# Connecting

Open picks the driver from the database type and pings before returning:

	conn, err := db.Open(ctx, "sqlite", "promptbattle.db")

Plain SQLite paths get busy_timeout and WAL pragmas.

# Tables

  - image_round: image submissions (image_path)
  - text_round: text submissions (response)
  - device_entry: the single accepted submission of each device key

Scores are nullable integers constrained to 1..25.

# Helpers

RoundTable and ArtifactColumn map a round name to its table and artifact
column. IsUniqueViolation recognises key conflicts from both drivers and is
used to resolve concurrent first submissions from one device.
*/
package db
