package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static - содержимое каталога static: index.html, css/, js/
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// каталог встроен при сборке, ошибка тут невозможна
		panic(err)
	}

	return sub
}
