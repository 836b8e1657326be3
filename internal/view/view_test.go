package view_test

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/view"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestTitles(t *testing.T) {
	e := &domain.Engineer{ID: "e1", Name: "Grace Hopper", Specialty: "Compilers", YearsExperience: 1}

	if html := render(t, view.EngineerShowPage("tok", e)); !strings.Contains(html, "<title>Grace Hopper - Engineers App</title>") {
		t.Fatalf("show page title missing engineer name:\n%s", html)
	}
	if html := render(t, view.EngineersIndexPage("tok", nil)); !strings.Contains(html, "<title>Engineers App - The Greatest Of All Time</title>") {
		t.Fatalf("index page should use the default title:\n%s", html)
	}
}

func TestIndexPage_CarriesToken(t *testing.T) {
	engineers := []domain.Engineer{
		{ID: "e1", Name: "Ada", Specialty: "Engines"},
		{ID: "e2", Name: "Linus", Specialty: "Kernels", YearsExperience: 1},
	}
	html := render(t, view.EngineersIndexPage("abc.def.ghi", engineers))

	for _, want := range []string{
		`href="/engineers/new?token=abc.def.ghi"`,
		`href="/engineers/e1?token=abc.def.ghi"`,
		`href="/engineers/e2/edit?token=abc.def.ghi"`,
		`id="engineer-e1"`,
		`id="engineers-grid"`,
		"No experience",
		"1 year",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestIndexPage_Empty(t *testing.T) {
	html := render(t, view.EngineersIndexPage("tok", []domain.Engineer{}))
	if !strings.Contains(html, "No engineers added yet!") {
		t.Fatalf("expected empty state:\n%s", html)
	}
}

func TestGrid_IsFragment(t *testing.T) {
	html := render(t, view.EngineersGrid("tok", []domain.Engineer{{ID: "e1", Name: "Ada"}}))
	if strings.Contains(html, "<html") {
		t.Fatal("grid fragment must not include the layout")
	}
	if !strings.Contains(html, `id="engineer-e1"`) {
		t.Fatalf("grid fragment missing card:\n%s", html)
	}
}

func TestEditPage_Checkbox(t *testing.T) {
	checked := render(t, view.EngineerEditPage("tok", &domain.Engineer{ID: "e1", Name: "Ada", YearsExperience: 1}))
	if !strings.Contains(checked, `name="yearsExperience" checked`) {
		t.Fatalf("expected checkbox to be checked:\n%s", checked)
	}
	if !strings.Contains(checked, `action="/engineers/e1?_method=PUT&amp;token=tok"`) {
		t.Fatalf("expected PUT override form action:\n%s", checked)
	}

	unchecked := render(t, view.EngineerEditPage("tok", &domain.Engineer{ID: "e1", Name: "Ada"}))
	if strings.Contains(unchecked, "checked") {
		t.Fatalf("expected checkbox to be unchecked:\n%s", unchecked)
	}
}

func TestShowPage_EscapesContent(t *testing.T) {
	html := render(t, view.EngineerShowPage("tok", &domain.Engineer{ID: "e1", Name: "<script>x</script>"}))
	if strings.Contains(html, "<script>x</script>") {
		t.Fatal("engineer name was not escaped")
	}
	if !strings.Contains(html, `action="/engineers/e1?_method=DELETE&amp;token=tok"`) {
		t.Fatalf("expected DELETE override form:\n%s", html)
	}
}

func TestAuthPages(t *testing.T) {
	if html := render(t, view.SignUpPage("email already exists")); !strings.Contains(html, "email already exists") {
		t.Fatal("sign-up page should show the error")
	}
	if html := render(t, view.SignInPage("")); strings.Contains(html, "alert-error") {
		t.Fatal("sign-in page should not show an empty error")
	}
	if html := render(t, view.HomePage()); !strings.Contains(html, `href="/users/signup"`) {
		t.Fatal("home page should link to sign-up")
	}
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(view.Static(), "styles.css")
	if err != nil {
		t.Fatalf("read styles.css: %v", err)
	}
	if !bytes.Contains(data, []byte(".engineer-card")) {
		t.Fatal("stylesheet missing engineer-card rule")
	}
}
