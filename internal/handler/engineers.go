package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/metrics"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/msomdec/engineers/internal/service"
)

const engineerNotFound = "No engineer with that ID is in our database"

// EngineerHandler holds the engineer data stages. Each stage leaves its
// result in the pipeline State for an API or page responder to render.
type EngineerHandler struct {
	engineers *service.EngineerService
}

// NewEngineerHandler creates a new EngineerHandler.
func NewEngineerHandler(engineers *service.EngineerService) *EngineerHandler {
	return &EngineerHandler{engineers: engineers}
}

type engineerRequest struct {
	Name            *string         `json:"name"`
	Specialty       *string         `json:"specialty"`
	YearsExperience json.RawMessage `json:"yearsExperience"`
}

// readEngineerInput accepts JSON or a form post. The experience value is
// passed through raw; anything that is not a string ends up unchecked.
func readEngineerInput(w http.ResponseWriter, r *http.Request) (domain.EngineerInput, error) {
	var in domain.EngineerInput

	if isJSON(r) {
		var req engineerRequest
		if err := readJSON(w, r, &req); err != nil {
			return in, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
		}
		in.Name = req.Name
		in.Specialty = req.Specialty
		var experience string
		if json.Unmarshal(req.YearsExperience, &experience) == nil {
			in.Experience = experience
		}
		return in, nil
	}

	if err := parseForm(w, r); err != nil {
		return in, pipeline.Fail(http.StatusBadRequest, "Invalid request body", err)
	}
	in.Name = formValue(r, "name")
	in.Specialty = formValue(r, "specialty")
	in.Experience = r.PostForm.Get("yearsExperience")
	return in, nil
}

func formValue(r *http.Request, key string) *string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := r.PostForm.Get(key)
	return &v
}

func (h *EngineerHandler) list(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	engineers, err := h.engineers.List(r.Context(), st.User)
	if err != nil {
		return err
	}
	st.Engineers = engineers
	return nil
}

func (h *EngineerHandler) show(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	e, err := h.engineers.Get(r.Context(), st.User, r.PathValue("id"))
	if err != nil {
		return engineerFailure(err)
	}
	st.Engineer = e
	return nil
}

func (h *EngineerHandler) create(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	in, err := readEngineerInput(w, r)
	if err != nil {
		return err
	}

	e, err := h.engineers.Create(r.Context(), st.User, in)
	if err != nil {
		return err
	}

	metrics.EngineerWritesTotal.WithLabelValues("create").Inc()
	logging.FromContext(r.Context()).Info("engineer created", "engineer_id", e.ID, "user_id", st.User.ID)
	st.Engineer = e
	return nil
}

func (h *EngineerHandler) update(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	in, err := readEngineerInput(w, r)
	if err != nil {
		return err
	}

	e, err := h.engineers.Update(r.Context(), st.User, r.PathValue("id"), in)
	if err != nil {
		return engineerFailure(err)
	}

	metrics.EngineerWritesTotal.WithLabelValues("update").Inc()
	st.Engineer = e
	return nil
}

func (h *EngineerHandler) delete(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	id := r.PathValue("id")
	if err := h.engineers.Delete(r.Context(), st.User, id); err != nil {
		return engineerFailure(err)
	}

	metrics.EngineerWritesTotal.WithLabelValues("delete").Inc()
	logging.FromContext(r.Context()).Info("engineer deleted", "engineer_id", id, "user_id", st.User.ID)
	return nil
}

func engineerFailure(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return pipeline.Fail(http.StatusBadRequest, engineerNotFound, err)
	}
	return err
}

func respondEngineers(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	writeJSON(w, http.StatusOK, toEngineerDTOs(st.Engineers))
	return nil
}

func respondEngineer(status int) pipeline.Stage {
	return func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
		writeJSON(w, status, toEngineerDTO(st.Engineer))
		return nil
	}
}

func respondEngineerDeleted(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
	writeMessage(w, http.StatusOK, "Engineer successfully deleted")
	return nil
}
