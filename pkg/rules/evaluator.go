package rules

import (
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Result is the outcome of evaluating one rule.
type Result struct {
	OK      bool
	Message string
}

// Pass is the successful Result.
var Pass = Result{OK: true}

// Fail builds a failing Result carrying the rule's message.
func Fail(rule model.Rule) Result {
	return Result{Message: rule.Message}
}

// Evaluator caches compiled patterns. The zero value is ready to use and is
// safe for concurrent use.
type Evaluator struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
	invalid  map[string]error
}

// New returns an empty Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

var defaultEvaluator = New()

// Evaluate runs rule against value using a package level pattern cache.
// present is false when the field has no value.
func Evaluate(value model.FieldValue, present bool, rule model.Rule) Result {
	return defaultEvaluator.Evaluate(value, present, rule)
}

// Evaluate runs rule against value. present is false when the field has no
// value; the zero FieldValue is also treated as absent.
func (e *Evaluator) Evaluate(value model.FieldValue, present bool, rule model.Rule) Result {
	if value.IsZero() {
		present = false
	}
	switch rule.Kind {
	case model.RuleRequired:
		if !present || isEmpty(value) {
			return Fail(rule)
		}
		return Pass
	case model.RuleMin:
		if n, ok := value.NumberValue(); present && ok && (n < rule.Threshold || !model.IsFinite(n)) {
			return Fail(rule)
		}
		return Pass
	case model.RuleMax:
		if n, ok := value.NumberValue(); present && ok && (n > rule.Threshold || !model.IsFinite(n)) {
			return Fail(rule)
		}
		return Pass
	case model.RulePattern:
		text, ok := value.TextValue()
		if !present || !ok {
			return Pass
		}
		re, err := e.compile(rule.Pattern)
		if err != nil || !re.MatchString(text) {
			return Fail(rule)
		}
		return Pass
	default:
		return Pass
	}
}

// Compile reports whether expr is a usable pattern, caching the result.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.compile(expr)
	return err
}

func (e *Evaluator) compile(expr string) (*regexp.Regexp, error) {
	e.mu.RLock()
	if re, ok := e.patterns[expr]; ok {
		e.mu.RUnlock()
		return re, nil
	}
	if err, ok := e.invalid[expr]; ok {
		e.mu.RUnlock()
		return nil, err
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.patterns == nil {
		e.patterns = make(map[string]*regexp.Regexp)
		e.invalid = make(map[string]error)
	}
	re, err := regexp.Compile(anchor(expr))
	if err != nil {
		e.invalid[expr] = err
		return nil, err
	}
	e.patterns[expr] = re
	return re, nil
}

// anchor wraps expr so a match must cover the whole input.
func anchor(expr string) string {
	return `^(?:` + expr + `)$`
}

func isEmpty(value model.FieldValue) bool {
	switch value.Kind() {
	case model.KindText:
		s, _ := value.TextValue()
		return strings.TrimSpace(s) == ""
	case model.KindSingleChoice:
		s, _ := value.ChoiceValue()
		return strings.TrimSpace(s) == ""
	case model.KindMultiChoice:
		set, _ := value.ChoicesValue()
		return len(set) == 0
	case model.KindNumber:
		n, _ := value.NumberValue()
		return !model.IsFinite(n)
	default:
		return false
	}
}
