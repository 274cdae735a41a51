package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
	"github.com/vbonduro/folio/internal/mediastore"
	"github.com/vbonduro/folio/internal/wire"
)

// maxUploadBody bounds the whole multipart body. Per-type limits are
// enforced after parsing.
const maxUploadBody = gateway.MaxVideoSize + 1<<20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.badRequest(w, "file is too large")
			return
		}
		s.badRequest(w, "failed to parse form")
		return
	}

	declared := domain.MediaType(r.FormValue("file_type"))
	if err := domain.ValidateMediaType(declared); err != nil {
		s.writeError(w, r, "upload file", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, "file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, wire.ErrorBody{Error: "failed to read file"})
		return
	}

	up, err := s.service.Upload(r.Context(), gateway.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, declared)
	if err != nil {
		s.writeError(w, r, "upload file", err)
		return
	}
	s.writeJSON(w, http.StatusOK, wire.FromUploadedFile(up))
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	reader, mimeType, err := s.mediaStore.Get(r.Context(), name)
	if err != nil {
		if !errors.Is(err, mediastore.ErrNotFound) {
			s.logger.Warn("get media failed", "filename", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "media reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write media failed", "filename", name, "error", err)
	}
}
