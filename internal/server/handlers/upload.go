package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 MB

// HandleAdminUpload accepts a multipart image upload and stores it under the
// configured upload directory. The stored filename is randomized; the public
// path is returned.
func HandleAdminUpload(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondError(w, http.StatusBadRequest, "File too large or invalid form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()

		// Sniff the content type from the first bytes rather than trusting
		// the client-supplied header.
		buf := make([]byte, 512)
		n, err := file.Read(buf)
		if err != nil && err != io.EOF {
			respondError(w, http.StatusBadRequest, "Unable to read file")
			return
		}
		contentType := http.DetectContentType(buf[:n])
		if !strings.HasPrefix(contentType, "image/") {
			respondError(w, http.StatusBadRequest, "Only image uploads are allowed")
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			respondError(w, http.StatusInternalServerError, "Unable to read file")
			return
		}

		uploadDir := s.GetConfig().UploadDir
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			s.GetLogger().Error().Err(err).Str("dir", uploadDir).Msg("failed to create upload directory")
			respondError(w, http.StatusInternalServerError, "Upload failed")
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext == "" {
			switch contentType {
			case "image/png":
				ext = ".png"
			case "image/gif":
				ext = ".gif"
			case "image/webp":
				ext = ".webp"
			default:
				ext = ".jpg"
			}
		}
		name := uuid.NewString() + ext

		dst, err := os.Create(filepath.Join(uploadDir, name))
		if err != nil {
			s.GetLogger().Error().Err(err).Msg("failed to create upload file")
			respondError(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			s.GetLogger().Error().Err(err).Msg("failed to write upload file")
			respondError(w, http.StatusInternalServerError, "Upload failed")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]string{
			"url": fmt.Sprintf("/uploads/%s", name),
		})
	}
}
