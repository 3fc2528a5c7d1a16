package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/2beens/statuspanel/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageIndex = "index"
	PageLogin = "login"
	PageStaff = "staff"
	PageAdmin = "admin"
)

var funcs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("2006-01-02 15:04:05 UTC")
	},
}

// Renderer executes the embedded page templates, each one wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages: map[string]*template.Template{},
	}
	for _, page := range []string{PageIndex, PageLogin, PageStaff, PageAdmin} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes the page with status 200. Execution happens into a buffer first, so a
// template failure still ends up as a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		log.Errorf("render: unknown page [%s]", page)
		pkg.WriteInternalServerError(w)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("render page [%s]: %s", page, err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, buf.Bytes())
}
