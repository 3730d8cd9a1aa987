// Package web embeds the static chat UI.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
