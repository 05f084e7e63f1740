// Package schemas embeds the JSON schemas for quorum configuration files.
package schemas

import _ "embed"

//go:embed config.schema.json
var ConfigSchemaJSON string
