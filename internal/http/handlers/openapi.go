package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

// docsHTML renders the embedded description with Redoc. The noscript block
// lists the routes for clients that do not run JavaScript.
const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Document Cover Image API</title>
<meta name="description" content="Generates document cover images from a category catalog and burns the title and category into the picture.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{margin:0}redoc{display:block;min-height:100vh}noscript{font-family:sans-serif;padding:1rem 2rem}</style>
</head>
<body>
<noscript>
<h1>Document Cover Image API</h1>
<p>Cover image URLs come from POST /generate-cover-image, /generate-cover-image-with-text and /generate-cover-image-no-text.
POST /api/v1/generate-document-cover-image returns the finished PNG with its caption overlaid.
The machine readable description is at <a href="/openapi.json">/openapi.json</a>.</p>
</noscript>
<redoc spec-url="/openapi.json" hide-download-button expand-responses="200"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
</body>
</html>`

// OpenAPIJSON serves the embedded API description.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs serves the human readable API reference.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsHTML))
}
