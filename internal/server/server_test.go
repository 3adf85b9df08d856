package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/persist"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

type stateResponse struct {
	Phase         string            `json:"phase"`
	ActiveTab     string            `json:"activeTab"`
	Values        model.Values      `json:"values"`
	Errors        map[string]string `json:"errors"`
	SubmitVisible bool              `json:"submitVisible"`
	Notice        string            `json:"notice"`
}

func newTestServer(t *testing.T, opts ...form.Option) (*Server, *form.Controller) {
	t.Helper()
	def := testsupport.ProfileDefinition(t)
	ctrl := testsupport.NewProfileController(t, opts...)
	srv, err := New(ctrl, WithRenderOptions(render.RenderOptions{
		Title:     def.Title,
		TabLabels: def.TabLabels(),
	}))
	require.NoError(t, err)
	return srv, ctrl
}

func post(t *testing.T, srv http.Handler, path string, body url.Values) (*httptest.ResponseRecorder, stateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var state stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state), rec.Body.String())
	return rec, state
}

func TestServer_IndexRendersPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.Contains(t, body, "<!doctype html>")
	require.Contains(t, body, `href="/assets/formstate.css"`)
	require.Contains(t, body, "Multi-tab profile")
	require.Contains(t, body, "Profile Info")
	require.Contains(t, body, `name="firstName"`)
	require.Contains(t, body, `name="_tab" value="profile"`)
}

func TestServer_ServesAssets(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/formstate.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestServer_StateReturnsJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, "editing", state.Phase)
	require.Equal(t, "profile", state.ActiveTab)
	require.False(t, state.SubmitVisible)
	require.Empty(t, state.Errors)
}

func TestServer_FieldInputValidates(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, state := post(t, srv, "/fields/age", url.Values{"value": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Age must be at least 1", state.Errors["age"])
	require.True(t, state.Values["age"].Equal(model.Number(0)))

	rec, state = post(t, srv, "/fields/age", url.Values{"value": {"30"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, state.Errors, "age")

	rec, state = post(t, srv, "/fields/age", url.Values{"value": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Age is required", state.Errors["age"])
	require.NotContains(t, state.Values, model.FieldName("age"))
}

func TestServer_FieldInputRejections(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, state := post(t, srv, "/fields/age", url.Values{"value": {"abc"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, state.Notice, "not a number")

	rec, _ = post(t, srv, "/fields/nickname", url.Values{"value": {"x"}})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, state = post(t, srv, "/fields/age", url.Values{"value": {"NaN"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotContains(t, state.Values, model.FieldName("age"))

	rec, state = post(t, srv, "/fields/domainPref", url.Values{"value": {"hacker"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotContains(t, state.Values, model.FieldName("domainPref"))

	rec, state = post(t, srv, "/fields/skills", url.Values{"value": {"nodejs", "cobol"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotContains(t, state.Values, model.FieldName("skills"))
}

func TestServer_MultiChoiceUsesRepeatedValues(t *testing.T) {
	srv, _ := newTestServer(t)

	_, state := post(t, srv, "/fields/skills", url.Values{"value": {"javascript", "nodejs"}})
	require.True(t, state.Values["skills"].Equal(model.MultiChoice("javascript", "nodejs")))
}

func TestServer_SelectTab(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, state := post(t, srv, "/tabs/setting", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "setting", state.ActiveTab)
	require.True(t, state.SubmitVisible)

	rec, state = post(t, srv, "/tabs/settings", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "setting", state.ActiveTab)
	require.Contains(t, state.Notice, "setting")
}

func TestServer_SaveTabAppliesEveryControl(t *testing.T) {
	srv, ctrl := newTestServer(t)
	require.NoError(t, ctrl.OnFieldChange("newsletter", model.Boolean(true)))
	require.NoError(t, ctrl.OnFieldChange("location", model.SingleChoice("remote")))

	rec, state := post(t, srv, "/fields", url.Values{
		TabField: {"setting"},
		"salary": {"-5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Progress saved.", state.Notice)
	require.True(t, state.Values["newsletter"].Equal(model.Boolean(false)), "unchecked box saves false")
	require.NotContains(t, state.Values, model.FieldName("location"))
	require.Equal(t, "Salary must be positive", state.Errors["salary"])
	require.Equal(t, "profile", state.ActiveTab, "saving does not change the active tab")
}

func TestServer_SubmitInvalidReportsErrors(t *testing.T) {
	srv, ctrl := newTestServer(t)

	rec, state := post(t, srv, "/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "editing", state.Phase)
	require.Equal(t, "Name is required", state.Errors["firstName"])
	require.Equal(t, "Age is required", state.Errors["age"])
	require.Equal(t, "Email is required", state.Errors["email"])
	require.Equal(t, "Please select a preference", state.Errors["domainPref"])
	require.Equal(t, form.PhaseEditing, ctrl.Phase())
}

func TestServer_CompleteFlow(t *testing.T) {
	var submitted model.Values
	srv, _ := newTestServer(t, form.WithOnSuccess(func(values model.Values) {
		submitted = values
	}))

	rec, _ := post(t, srv, "/fields", url.Values{
		TabField:    {"profile"},
		"firstName": {"Ann"},
		"age":       {"30"},
		"email":     {"a@b.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = post(t, srv, "/tabs/interest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = post(t, srv, "/fields", url.Values{
		TabField:     {"interest"},
		"domainPref": {"backend"},
		"skills":     {"javascript", "nodejs"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = post(t, srv, "/tabs/setting", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, state := post(t, srv, "/submit", url.Values{
		TabField:     {"setting"},
		"newsletter": {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "submitted", state.Phase)
	require.Empty(t, state.Errors)

	require.True(t, submitted["firstName"].Equal(model.Text("Ann")))
	require.True(t, submitted["age"].Equal(model.Number(30)))
	require.True(t, submitted["newsletter"].Equal(model.Boolean(true)))
	require.True(t, submitted["skills"].Equal(model.MultiChoice("javascript", "nodejs")))

	rec, _ = post(t, srv, "/fields/firstName", url.Values{"value": {"Bob"}})
	require.Equal(t, http.StatusConflict, rec.Code)

	page := httptest.NewRecorder()
	srv.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, page.Body.String(), "Form submitted successfully!")
}

func TestServer_ActionPrefix(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	srv, err := New(ctrl, WithRenderOptions(render.RenderOptions{Action: "/signup/"}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signup/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/signup/fields"`)
	require.Contains(t, rec.Body.String(), `href="/signup/assets/formstate.css"`)

	rec, state := post(t, srv, "/signup/tabs/interest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "interest", state.ActiveTab)
}

func TestNew_UnknownRenderer(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	_, err := New(ctrl, WithRenderer("preact"))
	require.Error(t, err)
}

func getPage(t *testing.T, srv http.Handler, path string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestServer_NewFormAfterSubmit(t *testing.T) {
	store := persist.NewMemoryStore()
	first := testsupport.NewProfileController(t, form.WithStore(store))
	builds := 0
	srv, err := New(first, WithFactory(func() (*form.Controller, error) {
		builds++
		return testsupport.NewProfileController(t, form.WithStore(store)), nil
	}))
	require.NoError(t, err)

	testsupport.Fill(t, first, testsupport.ValidProfile())
	rec, state := post(t, srv, "/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "submitted", state.Phase)

	page := getPage(t, srv, "/")
	require.Contains(t, page, "Start again")
	require.Contains(t, page, `action="/new"`)

	rec, state = post(t, srv, "/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, builds)
	require.Equal(t, "editing", state.Phase)
	require.Equal(t, "profile", state.ActiveTab)
	require.Empty(t, state.Values)
	require.Equal(t, "Started a new form.", state.Notice)
	require.NotSame(t, first, srv.Controller())

	rec, state = post(t, srv, "/fields/firstName", url.Values{"value": {"Bob"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, state.Values["firstName"].Equal(model.Text("Bob")))
	require.Equal(t, form.PhaseSubmitted, first.Phase())
	require.NoError(t, srv.Close())
}

func TestServer_NewFormDisabledWithoutFactory(t *testing.T) {
	srv, ctrl := newTestServer(t)
	testsupport.Fill(t, ctrl, testsupport.ValidProfile())
	rec, _ := post(t, srv, "/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotContains(t, getPage(t, srv, "/"), "Start again")

	rec, state := post(t, srv, "/new", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "submitted", state.Phase)
	require.Same(t, ctrl, srv.Controller())
}

func TestServer_NewFormFactoryError(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	srv, err := New(ctrl, WithFactory(func() (*form.Controller, error) {
		return nil, os.ErrPermission
	}))
	require.NoError(t, err)

	rec, _ := post(t, srv, "/new", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Same(t, ctrl, srv.Controller())
}

func TestServer_TemplatesDirOverridesPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	page := `<main data-css="{{ prefix }}/assets/{{ stylesheet }}">{{ body|safe }}</main>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(page), 0o644))

	ctrl := testsupport.NewProfileController(t)
	srv, err := New(ctrl, WithTemplatesDir(dir))
	require.NoError(t, err)

	body := getPage(t, srv, "/")
	require.True(t, strings.HasPrefix(body, `<main data-css="/assets/formstate.css">`), body)
	require.Contains(t, body, `name="firstName"`)
	require.NotContains(t, body, "<!doctype html>")
}

func TestServer_TemplatesDirOverridesForm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	tmpl := `<form data-tab="{{ form.activeTab }}">{% for field in fields %}[{{ field.name }}]{% endfor %}</form>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "form.tmpl"), []byte(tmpl), 0o644))

	ctrl := testsupport.NewProfileController(t)
	srv, err := New(ctrl, WithTemplatesDir(dir))
	require.NoError(t, err)

	body := getPage(t, srv, "/")
	require.Contains(t, body, "<!doctype html>")
	require.Contains(t, body, `<form data-tab="profile">[firstName][age][email]</form>`)
}

func TestNew_MissingTemplatesDir(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	_, err := New(ctrl, WithTemplatesDir(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}
