// Package rules holds the declarative rule table that option analysis
// checks against.
//
// A [Table] is a list of modules, each carrying [Rule] entries keyed by
// option key. Rules are loaded once ([LoadFile], [ReadTOML], [ReadJSON]) and
// passed explicitly to every analysis call; nothing in this package keeps
// global state.
package rules
