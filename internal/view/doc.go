// Package view renders the service's few HTML pages.
//
// The *_templ.go files are generated from the .templ sources with
// `templ generate`.
package view
