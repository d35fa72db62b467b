// Package templates holds the HTML components rendered by the handlers.
// The *_templ.go files are generated from the .templ sources.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate
