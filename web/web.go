// Package web embeds the built frontend so the binary ships as a single
// file.
package web

import "embed"

//go:embed static
var FrontendFS embed.FS
