// Package schemas holds the JSON Schemas shipped with the binary.
package schemas

import _ "embed"

// ConfigSchema is the JSON Schema every configuration file must satisfy
//
//go:embed config.schema.json
var ConfigSchema string
