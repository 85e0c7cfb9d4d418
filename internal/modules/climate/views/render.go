package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var indexTmpl *template.Template

// loadTemplatesFromFS loads the index template from the given fs and dir.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	indexTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before serving
// requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Route is one line of the route index.
type Route struct {
	Path        string
	Description string
}

type IndexData struct {
	Title  string
	Routes []Route
	Note   string
}

// DefaultIndex lists the public API routes.
func DefaultIndex() *IndexData {
	return &IndexData{
		Title: "Hawaii Climate API",
		Routes: []Route{
			{Path: "/api/v1.0/stations", Description: "list of weather stations"},
			{Path: "/api/v1.0/precipitation", Description: "average precipitation per date"},
			{Path: "/api/v1.0/tobs", Description: "average temperature per date for the last year of data"},
			{Path: "/api/v1.0/<start>", Description: "min, avg and max temperature from start"},
			{Path: "/api/v1.0/<start>/<end>", Description: "min, avg and max temperature between start and end"},
		},
		Note: "Date format should be YYYY-MM-DD.",
	}
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
