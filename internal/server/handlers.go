package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/hasher"
)

// multipartMemory is how much of an upload is held in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// handleConvert accepts a multipart upload ("file", "format") and answers
// with the converted image as an attachment.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxUploadMB)<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "Upload exceeds "+strconv.Itoa(s.cfg.MaxUploadMB)+" MB", "", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "Expected multipart/form-data upload", "", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := strings.TrimSpace(r.FormValue("format"))
	if format == "" {
		jsonError(w, "Missing output format", "", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "No file uploaded", "", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var out bytes.Buffer
	res, err := s.conv.Do(file, &out, format)
	if err != nil {
		kind := codec.KindOf(err)
		status := statusFor(kind, s.cfg.UniformErrors)
		s.log.Warn("conversion rejected",
			zap.String("filename", header.Filename),
			zap.String("format", format),
			zap.Stringer("kind", kind),
			zap.Int("status", status),
			zap.Error(err),
		)
		jsonError(w, err.Error(), kind.String(), status)
		return
	}

	s.log.Debug("converted",
		zap.String("filename", header.Filename),
		zap.String("from", res.SourceFormat),
		zap.String("to", res.TargetFormat),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Bool("flattened", res.Flattened),
		zap.Int("bytes", res.Bytes),
	)

	name := codec.Normalize(format)
	h := w.Header()
	h.Set("Content-Type", "image/"+name)
	h.Set("Content-Disposition", `attachment; filename="converted.`+name+`"`)
	h.Set("Content-Length", strconv.Itoa(out.Len()))
	h.Set("ETag", hasher.ETag(out.Bytes()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

type formatsResponse struct {
	Readable  []string `json:"readable"`
	Writeable []string `json:"writeable"`
}

// handleFormats advertises the supported conversions.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatsResponse{
		Readable:  s.conv.ReadableFormats(),
		Writeable: s.conv.WriteableFormats(),
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps a failure kind to an HTTP status. With uniform set every
// failure is a 500.
func statusFor(kind codec.Kind, uniform bool) int {
	if uniform {
		return http.StatusInternalServerError
	}
	switch kind {
	case codec.KindInvalidFormat:
		return http.StatusBadRequest
	case codec.KindUnsupportedFormat, codec.KindUnrecognizedFormat:
		return http.StatusUnsupportedMediaType
	case codec.KindReadFailure, codec.KindInvalidStream:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func jsonError(w http.ResponseWriter, msg, kind string, code int) {
	writeJSON(w, code, errorResponse{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
