package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/recipe-keeper/internal/recipe"
	"github.com/jonathan/recipe-keeper/internal/types"
)

// maxPreviewBody bounds the preview request body.
const maxPreviewBody = 64 << 10

// handlePreview extracts link-preview and recipe data for the posted URL.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBody))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		s.writeError(w, &ErrMalformedBody{Err: err})
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if err := req.Validate(); err != nil {
		s.writeError(w, &ErrValidation{Field: "url", Message: "must be an absolute http(s) URL"})
		return
	}
	if _, err := recipe.ValidateURL(req.URL); err != nil {
		s.writeError(w, &ErrValidation{Field: "url", Message: "must be an absolute http(s) URL"})
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	data := s.previewer.FetchOGP(ctx, req.URL)
	if data == nil {
		s.writeError(w, &ErrNotExtracted{URL: req.URL})
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}
