package server

import (
	"net/http"
	"strings"
)

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, notice string) {
	s.writeView(w, r, status, notice, wantsJSON(r))
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int, notice string, asJSON bool) {
	name := s.rendererName
	if asJSON {
		name = "json"
	}
	renderer, err := s.registry.Get(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	options := s.renderOptions
	options.Notice = notice
	body, err := renderer.Render(r.Context(), s.Controller().View(), options)
	if err != nil {
		s.logger.Error().Err(err).Str("renderer", name).Msg("render form")
		http.Error(w, "render form", http.StatusInternalServerError)
		return
	}

	if strings.HasPrefix(renderer.ContentType(), "text/html") {
		page, err := s.page.RenderTemplate(pageTemplate, map[string]any{
			"title":  options.Title,
			"prefix": strings.TrimRight(options.Action, "/"),
			"body":   string(body),
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("render page")
			http.Error(w, "render page", http.StatusInternalServerError)
			return
		}
		body = []byte(page)
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn().Err(err).Msg("write response")
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
