// Package web embeds the dashboard's templates and static assets.
package web

import "embed"

// Templates holds the HTML templates for every page and partial.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static holds the stylesheet and any other static assets.
//
//go:embed static/**/*
var Static embed.FS
