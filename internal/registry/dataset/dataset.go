// Package dataset carries the authored jurisdiction data files. Data is
// plain JSON, one file per country (sub-regions live alongside their
// parent), embedded at build time. Authoring happens out-of-band; the loader
// validates every file before a snapshot can publish.
package dataset

import "embed"

// Version identifies the authored dataset release baked into the binary.
const Version = "2026.08"

//go:embed *.json
var Files embed.FS
