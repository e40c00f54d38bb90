package server

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/track"
)

//go:embed viewer.html
var viewerHTML string

var viewerTmpl = template.Must(template.New("viewer").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(viewerHTML))

// browserConfig is the JSON the front end consumes, with every file in the
// escaped /file/ URL form.
func (s *Server) browserConfig() model.BrowserConfig {
	cfg := model.BrowserConfig{
		Tracks: make([]model.BrowserTrack, 0, len(s.tracks)),
		Pages:  s.pages,
	}
	if s.reference != "" {
		cfg.ReferenceURL = track.FileURL(s.reference)
		cfg.ReferenceIndexURL = track.FileURL(s.reference + ".fai")
	}
	for _, t := range s.tracks {
		bt := model.BrowserTrack{Name: t.Name, URL: track.FileURL(t.Path)}
		if t.HasIndex {
			bt.IndexURL = track.FileURL(t.Path + ".bai")
		}
		cfg.Tracks = append(cfg.Tracks, bt)
	}
	return cfg
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.browserConfig()); err != nil {
		s.log.Error().Err(err).Msg("encode config failed")
	}
}

type viewerData struct {
	Config   template.JS
	Page     model.Page
	NumPages int
}

// handleViewer renders the igv.js page for GET / (page 1) and GET /page/{n}.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	num := 1
	if v, ok := mux.Vars(r)["num"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || (len(s.pages) > 0 && n > len(s.pages)) {
			http.Error(w, "no such page", http.StatusNotFound)
			return
		}
		num = n
	}

	data := viewerData{NumPages: len(s.pages)}
	if len(s.pages) > 0 {
		data.Page = s.pages[num-1]
	}

	raw, err := json.Marshal(s.browserConfig())
	if err != nil {
		http.Error(w, "could not build viewer config", http.StatusInternalServerError)
		return
	}
	data.Config = template.JS(raw)

	var b strings.Builder
	if err := viewerTmpl.Execute(&b, data); err != nil {
		s.log.Error().Err(err).Msg("render viewer failed")
		http.Error(w, "could not render viewer", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}
