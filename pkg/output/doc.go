// Package output renders command results as text, JSON or YAML.
//
// Results that implement TextWriter control their own text rendering; any
// other value falls back to its default formatting.
package output
