package handlers

import (
	"encoding/json"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"coverserver/internal/domain"
	"coverserver/internal/overlay"
	imageprov "coverserver/internal/providers/image"
	"coverserver/internal/providers/prompt"
)

const maxBodyBytes = 1 << 20

// GenerateLegacy serves POST /generate-cover-image: the first-generation
// prompt rendered at 620x400.
func (a *App) GenerateLegacy(w http.ResponseWriter, r *http.Request) {
	a.generateURL(w, r, imageprov.VariantLegacy, image.Pt(imageprov.LegacyWidth, imageprov.LegacyHeight), true)
}

// GenerateWithText serves POST /generate-cover-image-with-text.
func (a *App) GenerateWithText(w http.ResponseWriter, r *http.Request) {
	a.generateURL(w, r, imageprov.VariantWithText, a.canvas(), true)
}

// GenerateNoText serves POST /generate-cover-image-no-text. The title is not
// used.
func (a *App) GenerateNoText(w http.ResponseWriter, r *http.Request) {
	a.generateURL(w, r, imageprov.VariantNoText, a.canvas(), false)
}

func (a *App) generateURL(w http.ResponseWriter, r *http.Request, v imageprov.Variant, size image.Point, needTitle bool) {
	req, err := decodeCoverRequest(w, r, needTitle)
	if err != nil {
		a.fail(w, r, err, req)
		return
	}
	if req.CategoryID == nil {
		a.fail(w, r, domain.Invalid("category_id is required"), req)
		return
	}
	cat, err := a.Catalog.Validate(*req.CategoryID, req.CategoryName)
	if err != nil {
		a.fail(w, r, err, req)
		return
	}

	a.Log.Info().Str("title", req.Title).Str("category", req.CategoryName).Str("variant", string(v)).Msg("generating cover image")
	text := a.Prompts.Build(v, cat, req.Title, req.CategoryName)
	url, err := a.Images.GenerateURL(r.Context(), text, a.params(size))
	if err != nil {
		a.fail(w, r, err, req)
		return
	}
	a.json(w, http.StatusOK, domain.CoverResponse{
		Status: "success",
		Images: []domain.ImageRef{{URL: url}},
	})
}

// GenerateDocumentCover serves POST /api/v1/generate-document-cover-image.
// Catalog categories get a text-free catalog prompt; anything else goes
// through the prompt writer. The caption is overlaid locally and the PNG is
// returned as an attachment.
func (a *App) GenerateDocumentCover(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCoverRequest(w, r, true)
	if err != nil {
		a.fail(w, r, err, req)
		return
	}

	var text string
	if req.CategoryID != nil {
		cat, err := a.Catalog.Validate(*req.CategoryID, req.CategoryName)
		if err != nil {
			a.fail(w, r, err, req)
			return
		}
		text = a.Prompts.Build(imageprov.VariantNoText, cat, req.Title, req.CategoryName)
	} else {
		if a.Composer == nil {
			a.fail(w, r, domain.Invalid("category_id is required"), req)
			return
		}
		text, err = a.Composer.CoverPrompt(r.Context(), prompt.Hierarchy{
			Category:    req.CategoryName,
			Subcategory: req.SubcategoryName,
			Tertiary:    req.TertiaryCategoryName,
			Title:       req.Title,
		})
		if err != nil {
			a.fail(w, r, err, req)
			return
		}
	}

	size := a.canvas()
	a.Log.Info().Str("title", req.Title).Str("category", req.CategoryName).Msg("generating document cover")
	url, err := a.Images.GenerateURL(r.Context(), text, a.params(size))
	if err != nil {
		a.fail(w, r, err, req)
		return
	}
	rendered, err := a.Overlay.Render(r.Context(), overlay.Job{
		SourceURL: url,
		Title:     req.Title,
		Subtitle:  req.CategoryName,
		Width:     size.X,
		Height:    size.Y,
	})
	if err != nil {
		a.fail(w, r, err, req)
		return
	}
	defer a.release(rendered.Path)

	if err := a.serveFile(w, r, rendered.Path, downloadName(req.Title, req.CategoryName)); err != nil {
		a.fail(w, r, err, req)
	}
}

func (a *App) serveFile(w http.ResponseWriter, r *http.Request, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rendered cover: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat rendered cover: %w", err)
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", disposition)
	http.ServeContent(w, r, "", info.ModTime(), f)
	return nil
}

// release deletes a served file unless retention is enabled.
func (a *App) release(path string) {
	if a.Retain || a.Files == nil {
		return
	}
	if err := a.Files.Remove(path); err != nil {
		a.Log.Warn().Err(err).Str("path", path).Msg("remove rendered cover")
	}
}

func (a *App) params(size image.Point) imageprov.Params {
	p := a.Params
	if p.Model == "" {
		p = imageprov.DefaultParams()
		p.Negative, p.Private = a.Params.Negative, a.Params.Private
	}
	p.Width, p.Height = size.X, size.Y
	return p
}

// downloadName builds "{title}_{category}.png" with every space replaced by
// an underscore.
func downloadName(title, category string) string {
	name := norm.NFC.String(strings.TrimSpace(title) + "_" + strings.TrimSpace(category) + ".png")
	return strings.ReplaceAll(name, " ", "_")
}

func decodeCoverRequest(w http.ResponseWriter, r *http.Request, needTitle bool) (domain.CoverRequest, error) {
	var req domain.CoverRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return req, domain.Invalid("invalid payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.SubcategoryName = strings.TrimSpace(req.SubcategoryName)
	req.TertiaryCategoryName = strings.TrimSpace(req.TertiaryCategoryName)
	// The name is matched against the catalog verbatim, so it is not trimmed.
	if strings.TrimSpace(req.CategoryName) == "" {
		return req, domain.Invalid("category_name is required")
	}
	if needTitle && req.Title == "" {
		return req, domain.Invalid("title is required")
	}
	return req, nil
}
