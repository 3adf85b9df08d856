// Package tui runs an interactive terminal session over a form controller.
// Each round prompts the fields of the active tab, reports their errors and
// asks where to go next. Values are persisted by the controller as they are
// entered, so an interrupted session resumes where it stopped.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
)

const (
	noneOption    = "(none)"
	successNotice = "Form submitted successfully!"
)

type action int

const (
	actionNext action = iota
	actionPrevious
	actionJump
	actionEdit
	actionSubmit
	actionQuit
)

var actionLabels = map[action]string{
	actionNext:     "Next tab",
	actionPrevious: "Previous tab",
	actionJump:     "Go to tab...",
	actionEdit:     "Edit this tab again",
	actionSubmit:   "Submit",
	actionQuit:     "Save and quit",
}

// Session drives a controller from the terminal.
type Session struct {
	ctrl   *form.Controller
	driver PromptDriver
	styles Styles
	title  string
	labels map[model.TabID]string
}

// New constructs a session over ctrl. Without WithPromptDriver it prompts
// through survey on stdin/stdout.
func New(ctrl *form.Controller, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{ctrl: ctrl, styles: DefaultStyles()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run loops until the form is submitted successfully, the user quits
// (ErrSuspended) or aborts (ErrAborted).
func (s *Session) Run(ctx context.Context) (form.SubmitResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return form.SubmitResult{}, err
		}
		if err := s.header(ctx); err != nil {
			return form.SubmitResult{}, err
		}
		if err := s.editTab(ctx); err != nil {
			return form.SubmitResult{}, err
		}

		act, err := s.chooseAction(ctx, s.ctrl.View())
		if err != nil {
			return form.SubmitResult{}, err
		}
		switch act {
		case actionNext:
			s.ctrl.NextTab()
		case actionPrevious:
			s.ctrl.PreviousTab()
		case actionJump:
			if err := s.jump(ctx); err != nil {
				return form.SubmitResult{}, err
			}
		case actionEdit:
		case actionSubmit:
			result, err := s.ctrl.Submit()
			if err != nil {
				return form.SubmitResult{}, err
			}
			if result.Valid {
				return result, s.driver.Info(ctx, s.styles.Success.Render(successNotice))
			}
			if err := s.reportIssues(ctx, result); err != nil {
				return form.SubmitResult{}, err
			}
		case actionQuit:
			s.ctrl.Flush()
			return form.SubmitResult{}, ErrSuspended
		}
	}
}

func (s *Session) header(ctx context.Context) error {
	view := s.ctrl.View()
	var lines []string
	if s.title != "" {
		lines = append(lines, s.styles.Title.Render(s.title))
	}
	lines = append(lines, s.styles.TabBar(view, s.labels))
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (s *Session) editTab(ctx context.Context) error {
	for _, field := range s.ctrl.View().ActiveFields {
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
		if msg, bad := s.ctrl.Errors()[field.Name()]; bad {
			if err := s.driver.Info(ctx, s.styles.Error.Render("  "+msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field form.FieldView) error {
	def := field.Definition
	message := fieldLabel(def)
	if isRequired(def) {
		message += " *"
	}

	switch def.Kind {
	case model.KindSingleChoice:
		options := []string{noneOption}
		selected := 0
		for i, opt := range def.Options {
			options = append(options, optionLabel(opt))
			if field.Selected(opt.Value) {
				selected = i + 1
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: selected, Help: field.Error})
		if err != nil {
			return err
		}
		if idx <= 0 || idx > len(def.Options) {
			return s.ctrl.ClearField(def.Name)
		}
		return s.ctrl.OnFieldChange(def.Name, model.SingleChoice(def.Options[idx-1].Value))

	case model.KindMultiChoice:
		options := make([]string, 0, len(def.Options))
		var defaults []int
		for i, opt := range def.Options {
			options = append(options, optionLabel(opt))
			if field.Selected(opt.Value) {
				defaults = append(defaults, i)
			}
		}
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: options, Defaults: defaults, Help: field.Error})
		if err != nil {
			return err
		}
		var values []string
		for _, idx := range picked {
			if idx >= 0 && idx < len(def.Options) {
				values = append(values, def.Options[idx].Value)
			}
		}
		return s.ctrl.OnFieldInput(def.Name, values...)

	case model.KindBoolean:
		current, _ := field.Value.BoolValue()
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current, Help: field.Error})
		if err != nil {
			return err
		}
		return s.ctrl.OnFieldChange(def.Name, model.Boolean(answer))

	default:
		cfg := InputConfig{Message: message, Default: field.Value.String(), Help: field.Error}
		if def.Kind == model.KindNumber {
			cfg.Validator = func(raw string) error {
				_, _, err := model.ParseInput(model.KindNumber, raw)
				return err
			}
		}
		raw, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		return s.ctrl.OnFieldInput(def.Name, raw)
	}
}

func (s *Session) chooseAction(ctx context.Context, view form.View) (action, error) {
	first := len(view.Tabs) > 0 && view.Tabs[0].Active
	last := len(view.Tabs) > 0 && view.Tabs[len(view.Tabs)-1].Active

	var actions []action
	if !last {
		actions = append(actions, actionNext)
	}
	if !first {
		actions = append(actions, actionPrevious)
	}
	actions = append(actions, actionJump, actionEdit)
	if view.SubmitVisible {
		actions = append(actions, actionSubmit)
	}
	actions = append(actions, actionQuit)

	options := make([]string, len(actions))
	for i, act := range actions {
		options[i] = actionLabels[act]
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "What next?", Options: options})
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(actions) {
		return 0, fmt.Errorf("tui: invalid action index %d", idx)
	}
	return actions[idx], nil
}

func (s *Session) jump(ctx context.Context) error {
	view := s.ctrl.View()
	options := make([]string, len(view.Tabs))
	current := 0
	for i, tab := range view.Tabs {
		options[i] = s.tabLabel(tab.ID)
		if tab.Active {
			current = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Go to tab", Options: options, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(view.Tabs) {
		return nil
	}
	return s.ctrl.SelectTab(view.Tabs[idx].ID)
}

// reportIssues lists every failure and moves to the tab of the first one.
func (s *Session) reportIssues(ctx context.Context, result form.SubmitResult) error {
	lines := []string{s.styles.Error.Render("Please fix the following:")}
	for _, issue := range result.Issues {
		label := string(issue.Field)
		if def, ok := s.ctrl.Definition(issue.Field); ok {
			label = fmt.Sprintf("%s / %s", s.tabLabel(def.Tab), fieldLabel(def))
		}
		lines = append(lines, s.styles.Error.Render(fmt.Sprintf("  %s: %s", label, issue.Message)))
	}
	if err := s.driver.Info(ctx, strings.Join(lines, "\n")); err != nil {
		return err
	}
	if len(result.Issues) == 0 {
		return nil
	}
	if def, ok := s.ctrl.Definition(result.Issues[0].Field); ok {
		return s.ctrl.SelectTab(def.Tab)
	}
	return nil
}

func (s *Session) tabLabel(id model.TabID) string {
	if label := strings.TrimSpace(s.labels[id]); label != "" {
		return label
	}
	return string(id)
}

func fieldLabel(def model.FieldDefinition) string {
	if def.Label != "" {
		return def.Label
	}
	return string(def.Name)
}

func optionLabel(opt model.Option) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func isRequired(def model.FieldDefinition) bool {
	for _, rule := range def.Rules {
		if rule.Kind == model.RuleRequired {
			return true
		}
	}
	return false
}
