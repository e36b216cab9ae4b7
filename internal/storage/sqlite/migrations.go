package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// recipe_items has no foreign key to ingredients: line items are snapshots
// and outlive the catalog entry they were priced from.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ingredients (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    package_quantity REAL NOT NULL,
    package_unit TEXT NOT NULL,
    price REAL NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    variable_costs_percentage REAL NOT NULL,
    packaging_cost REAL NOT NULL,
    profit_margin REAL NOT NULL,
    total_cost REAL NOT NULL,
    sale_price REAL NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipe_items (
    recipe_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    ingredient_id TEXT NOT NULL,
    ingredient_name TEXT NOT NULL,
    display_quantity REAL NOT NULL,
    display_unit TEXT NOT NULL,
    base_quantity REAL NOT NULL,
    cost REAL NOT NULL,
    PRIMARY KEY (recipe_id, position),
    FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_ingredients_owner_id ON ingredients(owner_id);
CREATE INDEX IF NOT EXISTS idx_recipes_owner_id ON recipes(owner_id, created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
