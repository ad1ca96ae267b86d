// Package icons holds the Nerd Font glyphs shown next to connections.
package icons

import "github.com/nhath/lazydb/internal/db"

const (
	Postgres = "\ue76e"
	MySQL    = "\ue704"
	SQLite   = "\U000f01bc"
	Generic  = "\U000f01bc"

	Select = "▸"
	Lock   = "\U000f033e"
	Error  = "⚠"
	Ok     = "✓"
)

// ForDriver picks the glyph for a database type.
func ForDriver(t db.DriverType) string {
	switch t {
	case db.Postgres:
		return Postgres
	case db.MySQL:
		return MySQL
	case db.SQLite:
		return SQLite
	default:
		return Generic
	}
}
