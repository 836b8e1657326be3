package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/metrics"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/msomdec/engineers/internal/service"
	"github.com/msomdec/engineers/internal/view"
)

// UserHandler holds the account stages shared by the JSON API and the
// sign-up and sign-in pages.
type UserHandler struct {
	auth *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func readCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if isJSON(r) {
		if err := readJSON(w, r, &req); err != nil {
			return req, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
		}
		return req, nil
	}
	if err := parseForm(w, r); err != nil {
		return req, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
	}
	req.Name = r.PostForm.Get("name")
	req.Email = r.PostForm.Get("email")
	req.Password = r.PostForm.Get("password")
	return req, nil
}

// readUserUpdate accepts only name, email and password, each as a string.
// Any other field rejects the whole request.
func readUserUpdate(w http.ResponseWriter, r *http.Request) (domain.UserUpdate, error) {
	var upd domain.UserUpdate

	if isJSON(r) {
		var raw map[string]json.RawMessage
		if err := readJSON(w, r, &raw); err != nil {
			return upd, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
		}
		for field, value := range raw {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return upd, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidInput, field)
			}
			if err := setUserField(&upd, field, s); err != nil {
				return upd, err
			}
		}
		return upd, nil
	}

	if err := parseForm(w, r); err != nil {
		return upd, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
	}
	for field := range r.PostForm {
		if field == "_method" {
			continue
		}
		if err := setUserField(&upd, field, r.PostForm.Get(field)); err != nil {
			return upd, err
		}
	}
	return upd, nil
}

func setUserField(upd *domain.UserUpdate, field, value string) error {
	switch field {
	case "name":
		upd.Name = &value
	case "email":
		upd.Email = &value
	case "password":
		upd.Password = &value
	default:
		return fmt.Errorf("%w: field %q cannot be updated", domain.ErrInvalidInput, field)
	}
	return nil
}

// register creates the account and records it as the caller along with
// its new token.
func (h *UserHandler) register(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	req, err := readCredentials(w, r)
	if err != nil {
		return err
	}

	user, token, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	logging.FromContext(r.Context()).Info("user registered", "user_id", user.ID)
	st.User = user
	st.Token = token
	return nil
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	req, err := readCredentials(w, r)
	if err != nil {
		return err
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return pipeline.Fail(http.StatusBadRequest, "Invalid login credentials", err)
		}
		return err
	}

	st.User = user
	st.Token = token
	return nil
}

// update applies the allowed fields to the user named in the path.
func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	upd, err := readUserUpdate(w, r)
	if err != nil {
		return err
	}

	target, err := h.auth.UpdateUser(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return pipeline.Fail(http.StatusNotFound, "User not found", err)
		}
		return err
	}
	st.Target = target
	return nil
}

// delete removes the authenticated caller's own account. The id in the
// path is not consulted.
func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	if err := h.auth.DeleteUser(r.Context(), st.User.ID); err != nil {
		return err
	}
	logging.FromContext(r.Context()).Info("user deleted", "user_id", st.User.ID)
	return nil
}

func respondAuth(status int) pipeline.Stage {
	return func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
		writeJSON(w, status, AuthResponse{User: toUserDTO(st.User), Token: st.Token})
		return nil
	}
}

func respondProfile(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	writeJSON(w, http.StatusOK, map[string]UserDTO{"user": toUserDTO(st.User)})
	return nil
}

func respondUpdatedUser(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	writeJSON(w, http.StatusOK, toUserDTO(st.Target))
	return nil
}

func respondUserDeleted(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	writeMessage(w, http.StatusOK, "User deleted successfully")
	return nil
}

// redirectToEngineers sends a freshly signed-in browser to its roster,
// carrying the token in the URL.
func redirectToEngineers(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	http.Redirect(w, r, engineersURL(st.Token), http.StatusSeeOther)
	return nil
}

func engineersURL(token string) string {
	return "/engineers?token=" + url.QueryEscape(token)
}

// HandleSignUpPage renders the registration form.
func HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.SignUpPage(""))
}

// HandleSignInPage renders the login form.
func HandleSignInPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.SignInPage(""))
}

// formFailure re-renders a sign-up or sign-in form with the failure
// message instead of answering with JSON.
func formFailure(form func(errMsg string) templ.Component) pipeline.FailureFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, message := http.StatusBadRequest, err.Error()
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			status, message = perr.Status, perr.Message
		}
		metrics.StageFailuresTotal.WithLabelValues(failureKind(err)).Inc()
		logging.FromContext(r.Context()).Warn("form rejected", "path", r.URL.Path, "status", status, "error", err)
		renderPage(w, r, status, form(message))
	}
}
