// Package schemas holds the JSON Schema documents for ranking inputs and outputs.
package schemas

import "embed"

// FS contains every schema document in this directory
//
//go:embed *.schema.json
var FS embed.FS
