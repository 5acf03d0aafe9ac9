// Package web provides the embedded static files of the browser terminal.
package web

import "embed"

//go:embed index.html css js
var Assets embed.FS
