package validation

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// Source exposes the registry state the engine reads.
type Source interface {
	AllDefinitions() []model.FieldDefinition
	Value(name model.FieldName) (model.FieldValue, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator overrides the rule evaluator.
func WithEvaluator(evaluator *rules.Evaluator) Option {
	return func(e *Engine) {
		if evaluator != nil {
			e.evaluator = evaluator
		}
	}
}

// WithLogger sets the logger used to report unusable pattern rules.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine validates registry fields against their rules.
type Engine struct {
	source    Source
	evaluator *rules.Evaluator
	logger    zerolog.Logger

	mu     sync.Mutex
	warned map[string]struct{}
}

// New constructs an Engine reading from source.
func New(source Source, options ...Option) *Engine {
	e := &Engine{
		source:    source,
		evaluator: rules.New(),
		logger:    zerolog.Nop(),
		warned:    make(map[string]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Validate evaluates every field in scope, rules in declaration order, and
// records the first failing rule's message per field. Names in scope that
// are not registered are ignored.
func (e *Engine) Validate(scope Scope) Result {
	result := Result{Scope: scope, Errors: make(model.Errors)}
	for _, def := range e.source.AllDefinitions() {
		if !scope.Contains(def.Name) {
			continue
		}
		if msg, ok := e.ValidateField(def); !ok {
			result.Errors[def.Name] = msg
		}
	}
	return result
}

// ValidateField runs a single definition's rules against its current value.
func (e *Engine) ValidateField(def model.FieldDefinition) (string, bool) {
	value, present := e.source.Value(def.Name)
	for _, rule := range def.Rules {
		if rule.Kind == model.RulePattern {
			e.checkPattern(def.Name, rule.Pattern)
		}
		if res := e.evaluator.Evaluate(value, present, rule); !res.OK {
			return res.Message, false
		}
	}
	return "", true
}

func (e *Engine) checkPattern(field model.FieldName, expr string) {
	err := e.evaluator.Compile(expr)
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, done := e.warned[expr]; done {
		return
	}
	e.warned[expr] = struct{}{}
	e.logger.Warn().Err(err).Str("field", string(field)).Str("pattern", expr).Msg("pattern rule cannot compile; field will always fail it")
}
