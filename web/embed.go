// Package web holds the page templates and stylesheet compiled into the
// nairaghibli binary.
package web

import "embed"

// TemplatesFS holds the login page, the authenticated layout and the shared
// panel and chart partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
