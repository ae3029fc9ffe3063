package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

var (
	//go:embed assets/templates/*.html
	templateFS embed.FS

	//go:embed assets/static
	staticFS embed.FS
)

const (
	PageTemplate  = "page"
	LanesTemplate = "lanes"
)

// Page is the data behind the full board page.
type Page struct {
	Clock string
	Board Board
}

// Templates is the parsed HTML template set of the board.
type Templates struct {
	set *template.Template
}

func NewTemplates() (*Templates, error) {
	set, err := template.ParseFS(templateFS, "assets/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Execute renders the named template into w.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	return t.set.ExecuteTemplate(w, name, data)
}

// Static returns the script and stylesheet served next to the page.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "assets/static")
	if err != nil {
		panic(err)
	}
	return sub
}
