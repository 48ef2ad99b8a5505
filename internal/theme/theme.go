// Package theme ships the default page templates and stylesheet.
package theme

import (
	"embed"
	"io/fs"
)

//go:embed default
var files embed.FS

// Default returns the built-in theme rooted at its directory, holding
// layout.html, header.html, footer.html and style.css.
func Default() fs.FS {
	sub, err := fs.Sub(files, "default")
	if err != nil {
		// The embedded directory is fixed at compile time.
		panic(err)
	}
	return sub
}
