// Package pipeline runs a request through an ordered list of stages that
// share one typed State. The first stage to fail ends the request and the
// pipeline's FailureFunc writes the response.
package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/msomdec/engineers/internal/domain"
)

// State is created for each request and handed to every stage in turn.
// Stages record what later stages need here and nowhere else.
type State struct {
	// User is the authenticated caller.
	User *domain.User
	// Token is the bearer token the caller presented or was just issued.
	Token string
	// Target is a user record the request acted on, such as an updated account.
	Target *domain.User

	Engineer  *domain.Engineer
	Engineers []domain.Engineer
}

// Stage is one step of a pipeline. Returning an error stops the pipeline.
type Stage func(w http.ResponseWriter, r *http.Request, st *State) error

// FailureFunc writes the response for a stage error.
type FailureFunc func(w http.ResponseWriter, r *http.Request, err error)

// Pipeline is an http.Handler that runs its stages in order.
type Pipeline struct {
	stages []Stage
	fail   FailureFunc
}

// New builds a pipeline from fail and stages.
func New(fail FailureFunc, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, fail: fail}
}

// ServeHTTP runs the stages against a fresh State stored in the request context.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st := &State{}
	r = r.WithContext(WithState(r.Context(), st))

	for _, stage := range p.stages {
		if err := stage(w, r, st); err != nil {
			p.fail(w, r, err)
			return
		}
	}
}

// Error is a stage failure with a chosen status code and client message.
type Error struct {
	Status  int
	Message string
	Err     error
}

// Fail returns an *Error wrapping err.
func Fail(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type stateKey struct{}

// WithState returns a copy of ctx carrying st.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// FromContext returns the State stored in ctx, or nil.
func FromContext(ctx context.Context) *State {
	st, _ := ctx.Value(stateKey{}).(*State)
	return st
}
