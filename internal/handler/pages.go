package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed web/index.html web/static/*
var webFS embed.FS

type pages struct {
	index  *template.Template
	static http.Handler
}

func loadPages() (*pages, error) {
	tmpl, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	root, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	return &pages{
		index:  tmpl,
		static: http.FileServer(http.FS(root)),
	}, nil
}

// renderIndex writes the empty landing page. Results are filled in by script.js.
func (p *pages) renderIndex(w io.Writer) error {
	return p.index.Execute(w, nil)
}
