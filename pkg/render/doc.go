// Package render defines the renderer contract shared by every presentation
// of a form controller view, plus a name-keyed registry used by the
// entry points to pick an output format.
package render
