// Package view renders the server-side pages as templ components.
package view

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/a-h/templ"
	"github.com/msomdec/engineers/internal/domain"
)

const defaultTitle = "Engineers App - The Greatest Of All Time"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = parsePages(
	"home.html",
	"signup.html",
	"signin.html",
	"index.html",
	"show.html",
	"edit.html",
	"new.html",
)

// Static returns the stylesheet and other assets served from the site root.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// parsePages builds one template set per page, each sharing the layout
// and the engineer grid fragment.
func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html", "templates/grid.html"))

	out := make(map[string]*template.Template, len(names)+1)
	out["grid"] = base
	for _, name := range names {
		out[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name))
	}
	return out
}

var funcs = template.FuncMap{
	"experience": func(years int) string {
		if years > 0 {
			return "1 year"
		}
		return "No experience"
	},
}

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Token     string
	Error     string
	Engineer  *domain.Engineer
	Engineers []domain.Engineer
}

func page(name string, data pageData) templ.Component {
	if data.Title == "" {
		data.Title = defaultTitle
		if data.Engineer != nil && data.Engineer.Name != "" {
			data.Title = data.Engineer.Name + " - Engineers App"
		}
	}
	return templ.FromGoHTML(pages[name].Lookup("layout"), data)
}

// HomePage links to the sign-up and sign-in forms.
func HomePage() templ.Component {
	return page("home.html", pageData{})
}

// SignUpPage renders the registration form, with errMsg shown above it when set.
func SignUpPage(errMsg string) templ.Component {
	return page("signup.html", pageData{Error: errMsg})
}

// SignInPage renders the login form.
func SignInPage(errMsg string) templ.Component {
	return page("signin.html", pageData{Error: errMsg})
}

// EngineersIndexPage lists the caller's engineers.
func EngineersIndexPage(token string, engineers []domain.Engineer) templ.Component {
	return page("index.html", pageData{Token: token, Engineers: engineers})
}

// EngineersGrid renders only the contents of the #engineers-grid element.
func EngineersGrid(token string, engineers []domain.Engineer) templ.Component {
	return templ.FromGoHTML(pages["grid"].Lookup("grid"), pageData{Token: token, Engineers: engineers})
}

// EngineerShowPage renders one engineer with edit and delete controls.
func EngineerShowPage(token string, e *domain.Engineer) templ.Component {
	return page("show.html", pageData{Token: token, Engineer: e})
}

// EngineerEditPage renders the edit form prefilled with e.
func EngineerEditPage(token string, e *domain.Engineer) templ.Component {
	return page("edit.html", pageData{Token: token, Engineer: e})
}

// EngineerNewPage renders the create form.
func EngineerNewPage(token string) templ.Component {
	return page("new.html", pageData{Token: token})
}
