// Package gamedata holds the embedded spawn definitions and the weighted
// tables that pick from them.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
