package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jsphweid/genomedex/track"
)

// handleFile serves GET /file/{escaped-path}: the whole file for a plain GET,
// or a byte window with Content-Range framing when a Range header is present.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	requested := track.UnescapePath(mux.Vars(r)["path"])

	resolved, err := s.registry.Resolve(requested)
	switch {
	case errors.Is(err, track.ErrNotAllowlisted):
		// same answer whether or not the file exists on disk
		http.Error(w, fmt.Sprintf("%q is not an exposed file", requested), http.StatusForbidden)
		return
	case errors.Is(err, track.ErrNotFound):
		http.Error(w, fmt.Sprintf("%q not found", requested), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "could not resolve file", http.StatusInternalServerError)
		return
	}

	s.serveBytes(w, r, resolved)
}

func (s *Server) serveBytes(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("open failed")
		http.Error(w, "could not open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("stat failed")
		http.Error(w, "could not stat file", http.StatusInternalServerError)
		return
	}
	size := fi.Size()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, f); err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("copy failed")
		}
		return
	}

	br, err := ParseByteRange(rangeHeader, size)
	switch {
	case errors.Is(err, ErrMalformedRange):
		http.Error(w, fmt.Sprintf("cannot parse Range header %q", rangeHeader), http.StatusBadRequest)
		return
	case errors.Is(err, ErrUnsatisfiableRange):
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, fmt.Sprintf("range %q is beyond end of file", rangeHeader), http.StatusRequestedRangeNotSatisfiable)
		return
	case err != nil:
		http.Error(w, "could not parse range", http.StatusInternalServerError)
		return
	}

	if _, err := f.Seek(br.Offset, io.SeekStart); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("seek failed")
		http.Error(w, "could not seek file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Offset, br.End(), size))
	w.Header().Set("Content-Length", strconv.FormatInt(br.Length, 10))
	w.WriteHeader(http.StatusPartialContent)
	// stream rather than buffer: an open-ended range over an alignment file
	// can span gigabytes. A short copy at EOF is not an error.
	if _, err := io.CopyN(w, f, br.Length); err != nil && err != io.EOF {
		s.log.Error().Err(err).Str("path", path).Msg("copy failed")
	}
}
