package web

import (
	_ "embed"
)

// indexHTML bundles the demo control page.
//
//go:embed static/index.html
var indexHTML []byte

// Index returns the demo page markup.
func Index() []byte {
	return indexHTML
}
