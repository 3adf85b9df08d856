package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/persist"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	confirm   []bool

	inputPos   int
	selectPos  int
	multiPos   int
	confirmPos int

	inputConfigs  []InputConfig
	selectConfigs []SelectConfig
	infoMessages  []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectConfigs = append(s.selectConfigs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) infoContains(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func newSession(t *testing.T, driver PromptDriver, opts ...form.Option) (*Session, *form.Controller) {
	t.Helper()
	def := testsupport.ProfileDefinition(t)
	ctrl := testsupport.NewProfileController(t, opts...)
	session, err := New(ctrl, WithPromptDriver(driver), WithTitle(def.Title), WithTabLabels(def.TabLabels()))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, ctrl
}

func TestSession_CompletesAllTabs(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Ann", "30", "a@b.com", ""},
		selectIdx: []int{
			0,    // profile: Next tab
			2, 0, // domainPref Backend, framework none
			0,    // interest: Next tab
			1,    // location Remote
			3,    // setting: Submit
		},
		multiIdx: [][]int{{0, 2}},
		confirm:  []bool{true},
	}
	var delivered model.Values
	session, ctrl := newSession(t, driver, form.WithOnSuccess(func(values model.Values) {
		delivered = values
	}))

	result, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Valid || ctrl.Phase() != form.PhaseSubmitted {
		t.Fatalf("expected a submitted form, got %+v", result)
	}

	want := map[string]any{
		"firstName":  "Ann",
		"age":        float64(30),
		"email":      "a@b.com",
		"domainPref": "backend",
		"skills":     []string{"javascript", "nodejs"},
		"location":   "remote",
		"newsletter": true,
	}
	if diff := cmp.Diff(want, delivered.Native()); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	profileActions := driver.selectConfigs[0].Options
	if diff := cmp.Diff([]string{"Next tab", "Go to tab...", "Edit this tab again", "Save and quit"}, profileActions); diff != "" {
		t.Fatalf("profile actions mismatch (-want +got):\n%s", diff)
	}
	settingActions := driver.selectConfigs[len(driver.selectConfigs)-1].Options
	if diff := cmp.Diff([]string{"Previous tab", "Go to tab...", "Edit this tab again", "Submit", "Save and quit"}, settingActions); diff != "" {
		t.Fatalf("setting actions mismatch (-want +got):\n%s", diff)
	}
	if driver.inputConfigs[1].Message != "Age *" {
		t.Fatalf("required fields should be marked, got %q", driver.inputConfigs[1].Message)
	}
	if driver.inputConfigs[1].Validator("abc") == nil || driver.inputConfigs[1].Validator("42") != nil {
		t.Fatalf("number validator mismatch")
	}
	if !driver.infoContains("Multi-tab profile") || !driver.infoContains("Interest Info") {
		t.Fatalf("expected header with title and tab bar, got %v", driver.infoMessages)
	}
	if !driver.infoContains(successNotice) {
		t.Fatalf("expected success notice, got %v", driver.infoMessages)
	}
}

func TestSession_InvalidSubmitReturnsToFirstIssue(t *testing.T) {
	store := persist.NewMemoryStore()
	driver := &stubDriver{
		inputs: []string{
			"", "0", "", // profile, all invalid
			"", // salary
			"Ann", "30", "a@b.com", // profile again after the rejected submit
		},
		selectIdx: []int{
			1, 2, // profile: Go to tab..., Settings
			0,    // location none
			3,    // setting: Submit
			3,    // profile: Save and quit
		},
		confirm: []bool{false},
	}
	session, ctrl := newSession(t, driver, form.WithStore(store))

	_, err := session.Run(context.Background())
	if !errors.Is(err, ErrSuspended) {
		t.Fatalf("expected ErrSuspended, got %v", err)
	}
	if !driver.infoContains("Age must be at least 1") {
		t.Fatalf("expected inline field error, got %v", driver.infoMessages)
	}
	if !driver.infoContains("Profile Info / First Name: Name is required") {
		t.Fatalf("expected issue list, got %v", driver.infoMessages)
	}
	if !driver.infoContains("Interest Info / Domain Preference: Please select a preference") {
		t.Fatalf("expected issues from unvisited tabs, got %v", driver.infoMessages)
	}
	if ctrl.View().ActiveTab != model.TabProfile {
		t.Fatalf("expected the session to move to the first invalid tab")
	}
	if driver.inputConfigs[4].Help != "Name is required" {
		t.Fatalf("re-prompt should carry the field error, got %q", driver.inputConfigs[4].Help)
	}

	restored := testsupport.NewProfileController(t, form.WithStore(store))
	if got, _ := restored.Values()["firstName"].TextValue(); got != "Ann" {
		t.Fatalf("progress should be saved, got %q", got)
	}
}

func TestSession_PreviousAndEdit(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Ann", "30", "a@b.com", "Bob", "31", "b@c.com"},
		selectIdx: []int{
			2,    // profile: Edit this tab again
			1,    // profile: Go to tab...
			1,    // Interest Info
			0, 0, // domainPref, framework
			1,    // interest: Previous tab
			3,    // profile: Save and quit
		},
		multiIdx: [][]int{nil},
	}
	session, ctrl := newSession(t, driver)
	driver.inputs = append(driver.inputs, "Cid", "32", "c@d.com")

	_, err := session.Run(context.Background())
	if !errors.Is(err, ErrSuspended) {
		t.Fatalf("expected ErrSuspended, got %v", err)
	}
	if got, _ := ctrl.Values()["firstName"].TextValue(); got != "Cid" {
		t.Fatalf("expected last edit to win, got %q", got)
	}
	if _, ok := ctrl.Values()["domainPref"]; ok {
		t.Fatalf("choosing none should leave the choice unset")
	}
	if jump := driver.selectConfigs[2]; jump.DefaultIndex != 0 || jump.Options[2] != "Settings" {
		t.Fatalf("unexpected jump prompt: %+v", jump)
	}
}

func TestSession_Abort(t *testing.T) {
	driver := &abortDriver{stubDriver: &stubDriver{}}
	session, _ := newSession(t, driver)
	if _, err := session.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSession_ContextCancelled(t *testing.T) {
	session, _ := newSession(t, &stubDriver{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := session.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_RequiresController(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without controller")
	}
}

func TestStyles_TabBar(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	if err := ctrl.OnFieldChange("domainPref", model.SingleChoice("")); err != nil {
		t.Fatalf("change: %v", err)
	}
	bar := DefaultStyles().TabBar(ctrl.View(), map[model.TabID]string{model.TabInterest: "Interest Info"})
	for _, fragment := range []string{"profile", "Interest Info (1)", "setting"} {
		if !strings.Contains(bar, fragment) {
			t.Fatalf("tab bar missing %q: %q", fragment, bar)
		}
	}
}

type abortDriver struct {
	*stubDriver
}

func (a *abortDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}
