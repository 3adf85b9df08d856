package form

import (
	"fmt"
	"html"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/persist"
	"github.com/goliatone/go-formstate/pkg/registry"
	"github.com/goliatone/go-formstate/pkg/tabs"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Phase is the controller's position in its state machine.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// SubmitResult reports the outcome of Submit.
type SubmitResult struct {
	Valid  bool               `json:"valid"`
	Errors model.Errors       `json:"errors"`
	Issues []validation.Issue `json:"issues,omitempty"`
	Values model.Values       `json:"values,omitempty"`
}

// Controller is the single entry point for a form instance. It is safe for
// use from multiple goroutines; calls are serialised.
type Controller struct {
	id            string
	logger        zerolog.Logger
	store         persist.Store
	bridgeOptions []persist.Option
	tabOrder      []model.TabID
	sanitizer     *bluemonday.Policy
	onSuccess     func(model.Values)
	strict        bool

	registry *registry.Registry
	engine   *validation.Engine
	tabs     *tabs.Controller
	bridge   *persist.Bridge

	mu     sync.Mutex
	phase  Phase
	errors model.Errors
}

// New builds a controller and hydrates it from the configured store. Saved
// values for fields that are not registered yet are applied as soon as those
// fields register.
func New(options ...Option) *Controller {
	c := &Controller{
		id:     uuid.NewString(),
		logger: zerolog.Nop(),
		phase:  PhaseEditing,
		errors: make(model.Errors),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.With().Str("form", c.id).Logger()

	c.registry = registry.New()
	c.engine = validation.New(c.registry, validation.WithLogger(c.logger))
	c.tabs = tabs.New(c.registry, c.tabOrder...)

	bridgeOptions := append([]persist.Option{persist.WithLogger(c.logger)}, c.bridgeOptions...)
	c.bridge = persist.NewBridge(c.store, bridgeOptions...)

	restored := c.bridge.LoadInitial()
	if len(restored) > 0 {
		c.logger.Debug().Int("values", len(restored)).Str("key", c.bridge.Key()).Msg("restored saved progress")
	}
	c.registry.Seed(restored)
	return c
}

// ID returns the instance identifier.
func (c *Controller) ID() string {
	return c.id
}

// Phase reports the current state machine phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Register declares fields. Re-registering an identical definition is a
// no-op; a differing one replaces the previous definition.
func (c *Controller) Register(defs ...model.FieldDefinition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditable(); err != nil {
		return err
	}
	for _, def := range defs {
		changed, err := c.registry.Register(def)
		if err != nil {
			return fmt.Errorf("form: register %q: %w", def.Name, err)
		}
		if changed {
			c.logger.Debug().Str("field", string(def.Name)).Str("tab", string(def.Tab)).Msg("field registered")
		}
	}
	return nil
}

// Definitions returns the registered definitions in registration order.
func (c *Controller) Definitions() []model.FieldDefinition {
	return c.registry.AllDefinitions()
}

// Definition returns the definition registered under name.
func (c *Controller) Definition(name model.FieldName) (model.FieldDefinition, bool) {
	return c.registry.Definition(name)
}

// OnFieldChange stores value for name, mirrors the snapshot to the store and
// revalidates name. Changes to unregistered fields are ignored unless the
// controller is strict.
func (c *Controller) OnFieldChange(name model.FieldName, value model.FieldValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(name, value)
}

// ClearField removes the value of name, as when a control is emptied.
func (c *Controller) ClearField(name model.FieldName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(name, model.FieldValue{})
}

// OnFieldInput parses raw control input using the field's declared kind and
// applies it. Empty input clears the value. Fields without a kind are
// treated as text.
func (c *Controller) OnFieldInput(name model.FieldName, raw ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditable(); err != nil {
		return err
	}
	def, ok := c.registry.Definition(name)
	if !ok {
		return c.unregistered(name)
	}
	kind := def.Kind
	if kind == "" {
		kind = model.KindText
	}
	value, present, err := model.ParseInput(kind, raw...)
	if err != nil {
		return fmt.Errorf("form: field %q: %w", name, err)
	}
	if !present {
		value = model.FieldValue{}
	}
	return c.apply(name, value)
}

// SelectTab changes the active tab. Values and errors are untouched.
func (c *Controller) SelectTab(id model.TabID) error {
	return c.tabs.SelectTab(id)
}

// NextTab moves to the following tab.
func (c *Controller) NextTab() model.TabID {
	return c.tabs.Next()
}

// PreviousTab moves to the preceding tab.
func (c *Controller) PreviousTab() model.TabID {
	return c.tabs.Previous()
}

// Submit validates every registered field. On failure the errors are
// returned in the result and the controller stays editable. On success the
// success callback receives the values, the saved snapshot is removed and
// the controller becomes Submitted.
func (c *Controller) Submit() (SubmitResult, error) {
	c.mu.Lock()
	if err := c.checkEditable(); err != nil {
		c.mu.Unlock()
		return SubmitResult{}, err
	}
	c.phase = PhaseSubmitting

	result := c.engine.Validate(validation.All())
	c.errors = result.MergeInto(c.errors)
	if !result.Valid() {
		c.phase = PhaseEditing
		out := SubmitResult{
			Errors: c.errors.Clone(),
			Issues: validation.Issues(c.errors, c.registry.Names()),
		}
		c.mu.Unlock()
		c.logger.Info().Int("errors", len(out.Errors)).Msg("submission rejected")
		return out, nil
	}

	values := c.registry.Snapshot()
	callback := c.onSuccess
	c.mu.Unlock()

	// The callback runs unlocked so it may read the controller; mutating
	// calls observe PhaseSubmitting and fail with ErrSubmitting meanwhile.
	if callback != nil {
		c.notify(callback, values.Clone())
	}

	c.mu.Lock()
	c.bridge.Clear()
	c.phase = PhaseSubmitted
	c.mu.Unlock()

	c.logger.Info().Int("fields", len(values)).Msg("form submitted")
	return SubmitResult{Valid: true, Errors: model.Errors{}, Values: values}, nil
}

// notify runs the success callback. If it panics the controller goes back
// to Editing with the snapshot kept, and the panic continues.
func (c *Controller) notify(callback func(model.Values), values model.Values) {
	completed := false
	defer func() {
		if completed {
			return
		}
		c.mu.Lock()
		c.phase = PhaseEditing
		c.mu.Unlock()
		c.logger.Error().Msg("success callback did not complete; form is editable again")
	}()
	callback(values)
	completed = true
}

// Values returns a copy of the current values.
func (c *Controller) Values() model.Values {
	return c.registry.Snapshot()
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() model.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// State returns values and errors together.
func (c *Controller) State() model.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.FormState{Values: c.registry.Snapshot(), Errors: c.errors.Clone()}
}

// Flush writes any debounced snapshot immediately.
func (c *Controller) Flush() {
	c.bridge.Flush()
}

// Close flushes pending persistence. It does not close the store.
func (c *Controller) Close() error {
	return c.bridge.Close()
}

func (c *Controller) apply(name model.FieldName, value model.FieldValue) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	def, ok := c.registry.Definition(name)
	if !ok {
		return c.unregistered(name)
	}
	if !value.IsZero() && def.Kind != "" && value.Kind() != def.Kind {
		return fmt.Errorf("%w: field %q expects %s, got %s", ErrKindMismatch, name, def.Kind, value.Kind())
	}
	if err := checkValue(def, value); err != nil {
		return err
	}
	value = c.sanitize(value)

	if err := c.registry.SetValue(name, value); err != nil {
		return fmt.Errorf("form: set %q: %w", name, err)
	}
	c.bridge.OnValuesChanged(c.registry.Snapshot())
	c.errors = c.engine.Validate(validation.Fields(name)).MergeInto(c.errors)
	return nil
}

// checkValue rejects non-finite numbers and choices outside the declared
// options. Fields without options accept any choice, and an empty choice
// always passes so selects can be reset.
func checkValue(def model.FieldDefinition, value model.FieldValue) error {
	if n, ok := value.NumberValue(); ok && !model.IsFinite(n) {
		return fmt.Errorf("form: field %q: %w: %v is not a finite number", def.Name, model.ErrInvalidInput, n)
	}
	if len(def.Options) == 0 {
		return nil
	}
	var picked []string
	if choice, ok := value.ChoiceValue(); ok {
		picked = []string{choice}
	} else if choices, ok := value.ChoicesValue(); ok {
		picked = choices
	}
	for _, choice := range picked {
		if choice != "" && !hasOption(def.Options, choice) {
			return fmt.Errorf("%w: field %q has no option %q", ErrInvalidChoice, def.Name, choice)
		}
	}
	return nil
}

func hasOption(options []model.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func (c *Controller) sanitize(value model.FieldValue) model.FieldValue {
	if c.sanitizer == nil {
		return value
	}
	text, ok := value.TextValue()
	if !ok {
		return value
	}
	// Markup is stripped; the remaining literal text is kept unescaped since
	// renderers escape on output.
	return model.Text(html.UnescapeString(c.sanitizer.Sanitize(text)))
}

func (c *Controller) unregistered(name model.FieldName) error {
	c.logger.Warn().Str("field", string(name)).Msg("change for unregistered field ignored")
	if c.strict {
		return fmt.Errorf("%w: %q", ErrFieldNotRegistered, name)
	}
	return nil
}

func (c *Controller) checkEditable() error {
	switch c.phase {
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	case PhaseSubmitting:
		return ErrSubmitting
	}
	return nil
}
