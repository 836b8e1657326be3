package pipeline_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFailure(got *error) pipeline.FailureFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		*got = err
		w.WriteHeader(http.StatusTeapot)
	}
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var order []string
	var failure error

	p := pipeline.New(recordFailure(&failure),
		func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
			order = append(order, "auth")
			st.User = &domain.User{ID: "u1"}
			st.Token = "tok"
			return nil
		},
		func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
			order = append(order, "data")
			require.NotNil(t, st.User)
			st.Engineers = []domain.Engineer{{ID: "e1"}}
			return nil
		},
		func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
			order = append(order, "respond")
			assert.Same(t, st, pipeline.FromContext(r.Context()))
			assert.Len(t, st.Engineers, 1)
			w.WriteHeader(http.StatusOK)
			return nil
		},
	)

	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"auth", "data", "respond"}, order)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, failure)
}

func TestPipeline_StopsOnFirstError(t *testing.T) {
	var failure error
	boom := errors.New("boom")

	p := pipeline.New(recordFailure(&failure),
		func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error { return boom },
		func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
			t.Fatal("stage after a failure must not run")
			return nil
		},
	)

	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, failure, boom)
}

func TestPipeline_StateIsPerRequest(t *testing.T) {
	var seen []*pipeline.State
	p := pipeline.New(nil, func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
		assert.Nil(t, st.User, "state must start empty")
		st.User = &domain.User{ID: "leak"}
		seen = append(seen, st)
		return nil
	})

	for range 2 {
		p.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
}

func TestError(t *testing.T) {
	err := pipeline.Fail(http.StatusNotFound, "User not found", domain.ErrNotFound)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "User not found: not found", err.Error())

	var perr *pipeline.Error
	require.ErrorAs(t, error(err), &perr)
	assert.Equal(t, http.StatusNotFound, perr.Status)
	assert.Equal(t, "User not found", perr.Message)

	assert.Equal(t, "bare", pipeline.Fail(http.StatusBadRequest, "bare", nil).Error())
}

func TestFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, pipeline.FromContext(r.Context()))
}
