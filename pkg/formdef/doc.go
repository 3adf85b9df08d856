// Package formdef loads declarative form definitions. A definition names the
// form, its ordered tabs and its ordered fields with their value kind, label,
// choice options and validation rules. Documents may be written in YAML,
// JSON or HCL; all three decode into the same Definition.
//
// The package embeds the default profile / interest / setting form, see
// Default.
package formdef
