// Package guide renders the submission guide shown after an application is drafted.
//
// The guide is Markdown. It is rendered two ways:
//   - HTML via Goldmark with chroma highlighting, sanitized by bluemonday
//   - ANSI text for the terminal via glamour
package guide
