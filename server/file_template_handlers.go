package server

import (
	"embed"
	"html/template"
	"io/fs"
)

// Page templates are compiled into the binary; there is no on-disk template
// directory to deploy alongside it.
//
//go:embed templates/*
var templateFiles embed.FS

// TemplateFilesFS exposes the embedded templates rooted at the directory
// that holds the .html files themselves.
func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("template filesystem misconfigured: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses one named page template from the embedded filesystem.
// Each handler parses its own page at construction time; there is no shared
// layout tree.
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}
