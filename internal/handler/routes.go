package handler

import (
	"net/http"

	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/msomdec/engineers/internal/service"
	"github.com/msomdec/engineers/internal/view"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Every protected
// route starts with the Authenticate stage.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, engineers *service.EngineerService, db domain.Database) {
	users := NewUserHandler(auth)
	eng := NewEngineerHandler(engineers)
	gate := Authenticate(auth)

	run := func(stages ...pipeline.Stage) http.Handler {
		return pipeline.New(writeFailure, stages...)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(db))
	mux.Handle("GET /styles.css", http.FileServerFS(view.Static()))
	mux.HandleFunc("GET /{$}", HandleHome)

	// JSON API
	mux.Handle("POST /api/users", run(users.register, respondAuth(http.StatusCreated)))
	mux.Handle("POST /api/users/login", run(users.login, respondAuth(http.StatusOK)))
	mux.Handle("GET /api/users/profile", run(gate, respondProfile))
	mux.Handle("PUT /api/users/{id}", run(gate, users.update, respondUpdatedUser))
	mux.Handle("DELETE /api/users/{id}", run(gate, users.delete, respondUserDeleted))

	mux.Handle("GET /api/engineers", run(gate, eng.list, respondEngineers))
	mux.Handle("GET /api/engineers/{id}", run(gate, eng.show, respondEngineer(http.StatusOK)))
	mux.Handle("POST /api/engineers", run(gate, eng.create, respondEngineer(http.StatusCreated)))
	mux.Handle("PUT /api/engineers/{id}", run(gate, eng.update, respondEngineer(http.StatusOK)))
	mux.Handle("DELETE /api/engineers/{id}", run(gate, eng.delete, respondEngineerDeleted))

	// Pages
	mux.HandleFunc("GET /users/signup", HandleSignUpPage)
	mux.HandleFunc("GET /users/login", HandleSignInPage)
	mux.Handle("POST /users", pipeline.New(formFailure(view.SignUpPage), users.register, redirectToEngineers))
	mux.Handle("POST /users/login", pipeline.New(formFailure(view.SignInPage), users.login, redirectToEngineers))

	mux.Handle("GET /engineers", run(gate, eng.list, renderIndex))
	mux.Handle("GET /engineers/new", run(gate, renderNew))
	mux.Handle("POST /engineers", run(gate, eng.create, redirectIndex))
	mux.Handle("GET /engineers/{id}", run(gate, eng.show, renderShow))
	mux.Handle("GET /engineers/{id}/edit", run(gate, eng.show, renderEdit))
	mux.Handle("PUT /engineers/{id}", run(gate, eng.update, redirectShow))
	mux.Handle("PATCH /engineers/{id}", run(gate, eng.update, redirectShow))
	mux.Handle("DELETE /engineers/{id}", run(gate, eng.delete, redirectIndex))

	// Datastar fragments
	mux.Handle("GET /engineers/grid", run(gate, eng.list, patchGrid))
	mux.Handle("DELETE /engineers/{id}/card", run(gate, eng.delete, removeCard))
}
