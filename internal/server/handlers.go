package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/tabs"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, r, http.StatusOK, "", true)
}

func (s *Server) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	id := model.TabID(r.PathValue("id"))
	if err := s.Controller().SelectTab(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug().Str("tab", string(id)).Msg("tab selected")
	s.respond(w, r, http.StatusOK, "")
}

// handleSaveTab applies every control of the posted tab. Controls missing
// from the body are cleared, which is how browsers report unchecked boxes
// and emptied multi-selects.
func (s *Server) handleSaveTab(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	ctrl := s.Controller()
	tab := model.TabID(strings.TrimSpace(r.PostForm.Get(TabField)))
	if tab == "" {
		tab = ctrl.View().ActiveTab
	}
	if err := applyTab(ctrl, tab, r); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, "Progress saved.")
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	ctrl := s.Controller()
	name := model.FieldName(r.PathValue("name"))
	if _, ok := ctrl.Definition(name); !ok {
		s.fail(w, r, form.ErrFieldNotRegistered)
		return
	}
	if err := ctrl.OnFieldInput(name, r.PostForm["value"]...); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, "")
}

// handleSubmit applies the posted tab when the request carries one, then
// submits the whole form.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	ctrl := s.Controller()
	if r.PostForm.Has(TabField) {
		tab := model.TabID(strings.TrimSpace(r.PostForm.Get(TabField)))
		if err := applyTab(ctrl, tab, r); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	result, err := ctrl.Submit()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !result.Valid {
		s.logger.Info().Int("errors", len(result.Errors)).Msg("submission rejected")
		s.respond(w, r, http.StatusUnprocessableEntity, "Please correct the highlighted fields.")
		return
	}
	s.respond(w, r, http.StatusOK, "")
}

// handleNew replaces the served controller with a fresh one from the
// factory. A submitted form starts empty; an unsubmitted one resumes from
// its saved snapshot.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.restart()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info().Str("form", ctrl.ID()).Msg("new form started")
	s.respond(w, r, http.StatusOK, "Started a new form.")
}

func applyTab(ctrl *form.Controller, tab model.TabID, r *http.Request) error {
	var errs []error
	for _, def := range ctrl.Definitions() {
		if def.Tab != tab {
			continue
		}
		if err := ctrl.OnFieldInput(def.Name, r.PostForm[string(def.Name)]...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	s.respond(w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tabs.ErrUnknownTab), errors.Is(err, form.ErrFieldNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, form.ErrAlreadySubmitted), errors.Is(err, form.ErrSubmitting),
		errors.Is(err, ErrRestartDisabled):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, form.ErrKindMismatch),
		errors.Is(err, form.ErrInvalidChoice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
