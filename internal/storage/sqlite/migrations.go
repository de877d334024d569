package sqlite

import "context"

// schema creates the tables on a fresh database. Existing tables are left
// untouched, so databases created by other tools keep their definitions.
// person must be created BEFORE phone due to the foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS "user" (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS person (
    person_id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT,
    last_name TEXT,
    birthday TEXT,
    email TEXT,
    address_line1 TEXT,
    address_line2 TEXT,
    city TEXT,
    prov TEXT,
    country TEXT,
    postcode TEXT
);

CREATE TABLE IF NOT EXISTS phone (
    "number" TEXT,
    label TEXT,
    person_id INTEGER NOT NULL,
    FOREIGN KEY (person_id) REFERENCES person(person_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_phone_person_id ON phone(person_id);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, conn *Conn) error {
	_, err := conn.ExecContext(ctx, schema)
	return err
}
