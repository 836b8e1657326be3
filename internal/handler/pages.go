package handler

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/msomdec/engineers/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// renderPage writes c as an HTML response. Once the status line is out a
// render error can only be logged.
func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

// HandleHome renders the landing page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.HomePage())
}

func renderIndex(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	renderPage(w, r, http.StatusOK, view.EngineersIndexPage(st.Token, st.Engineers))
	return nil
}

func renderNew(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	renderPage(w, r, http.StatusOK, view.EngineerNewPage(st.Token))
	return nil
}

func renderShow(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	renderPage(w, r, http.StatusOK, view.EngineerShowPage(st.Token, st.Engineer))
	return nil
}

func renderEdit(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	renderPage(w, r, http.StatusOK, view.EngineerEditPage(st.Token, st.Engineer))
	return nil
}

// redirectIndex sends the browser back to the roster after a create or delete.
func redirectIndex(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	http.Redirect(w, r, engineersURL(st.Token), http.StatusSeeOther)
	return nil
}

// redirectShow sends the browser to the engineer it just updated.
func redirectShow(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	target := "/engineers/" + url.PathEscape(r.PathValue("id")) + "?token=" + url.QueryEscape(st.Token)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}

// patchGrid streams a fresh rendering of the caller's engineers into
// #engineers-grid.
func patchGrid(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(
		view.EngineersGrid(st.Token, st.Engineers),
		datastar.WithSelectorID("engineers-grid"),
		datastar.WithModeInner(),
	); err != nil {
		logging.FromContext(r.Context()).Warn("patch engineers grid", "error", err)
	}
	return nil
}

// removeCard streams the removal of a deleted engineer's card.
func removeCard(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	sse := datastar.NewSSE(w, r)
	if err := sse.RemoveElementByID("engineer-" + r.PathValue("id")); err != nil {
		logging.FromContext(r.Context()).Warn("remove engineer card", "error", err)
	}
	return nil
}
