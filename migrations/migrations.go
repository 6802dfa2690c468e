// Package migrations embeds the SQL schema migrations for every supported
// database dialect. Each dialect lives in its own directory and shares the
// same version numbers.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
