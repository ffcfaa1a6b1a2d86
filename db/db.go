// Package db embeds the SQL migrations shipped with the server binary.
package db

import "embed"

// Migrations holds the ordered *.up.sql / *.down.sql files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
