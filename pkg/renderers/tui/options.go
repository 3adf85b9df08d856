package tui

import "github.com/goliatone/go-formstate/pkg/model"

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithStyles overrides the message styles.
func WithStyles(styles Styles) Option {
	return func(s *Session) {
		s.styles = styles
	}
}

// WithTitle sets the heading printed above the tab bar.
func WithTitle(title string) Option {
	return func(s *Session) {
		s.title = title
	}
}

// WithTabLabels sets display labels for tabs.
func WithTabLabels(labels map[model.TabID]string) Option {
	return func(s *Session) {
		s.labels = labels
	}
}
