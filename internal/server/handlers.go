package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/buildinfo"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/render"
)

// maxCells bounds the grid size a single request may ask for.
const maxCells = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.queryOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := singleFormat(&opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkSize(opts.Params); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("X-Dungeon-Seed", strconv.FormatUint(result.Map.Seed, 10))
	h.Set("X-Dungeon-Rooms", strconv.Itoa(result.Stats.Rooms))
	h.Set("X-Cache", cacheStatus(result.CacheInfo.GenerateHit && result.CacheInfo.RenderHit))
	writeArtifact(w, format.ContentType(), result.Artifacts[string(format)])
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.queryOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkSize(opts.Params); err != nil {
		s.writeError(w, r, err)
		return
	}
	topts := pipeline.TreeOptions{Format: q.Get("format"), Detailed: isTrue(q.Get("detailed"))}

	data, hit, err := s.runner.TreeWithCacheInfo(r.Context(), opts, topts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "text/vnd.graphviz; charset=utf-8"
	if f := strings.ToLower(q.Get("format")); f != pipeline.TreeFormatDOT {
		if f == "" {
			f = string(render.FormatSVG)
		}
		contentType = render.Format(f).ContentType()
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeArtifact(w, contentType, data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.counters == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "stats are disabled"))
		return
	}
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

type createMapRequest struct {
	Name   string         `json:"name"`
	Params dungeon.Params `json:"params"`
	Seed   uint64         `json:"seed"`
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	req := createMapRequest{Params: s.defaults.Params, Seed: s.defaults.Seed}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := checkSize(req.Params); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Params, opts.Seed = req.Params, req.Seed
	m, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := archive.NewRecord(req.Name, m)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("archived map", "id", rec.ID, "name", rec.Name, "seed", rec.Seed)

	w.Header().Set("Location", "/v1/maps/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec.Summary())
}

type listMapsResponse struct {
	Maps   []archive.Record `json:"maps"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts archive.ListOptions
	if err := parseInt(q, "limit", &opts.Limit); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseInt(q, "offset", &opts.Offset); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Limit <= 0 {
		opts.Limit = archive.DefaultListLimit
	}

	maps, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listMapsResponse{Maps: maps, Limit: opts.Limit, Offset: max(opts.Offset, 0)})
}

// handleGetMap returns the archived record as JSON, or renders its map when
// a format is requested.
func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	if q.Get("format") == "" {
		writeJSON(w, http.StatusOK, rec)
		return
	}

	opts, err := s.queryOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := singleFormat(&opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), rec.Map, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format.ContentType(), artifacts[string(format)])
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted map", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// singleFormat narrows opts to the first requested format.
func singleFormat(opts *pipeline.Options) (render.Format, error) {
	name := pipeline.DefaultFormat
	if len(opts.Formats) > 0 {
		name = opts.Formats[0]
	}
	f, err := render.ParseFormat(name)
	if err != nil {
		return "", err
	}
	opts.Formats = []string{string(f)}
	return f, nil
}

func checkSize(p dungeon.Params) error {
	p = p.OrDefault()
	if p.Width > 0 && p.Height > 0 && p.Width*p.Height > maxCells {
		return errors.New(errors.ErrCodeInvalidInput, "grid %dx%d exceeds %d cells", p.Width, p.Height, maxCells)
	}
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeArtifact(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
