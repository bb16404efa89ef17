package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

// queryOptions overlays the generation and render query parameters on the
// server defaults:
//
//	width height min_room probability threshold wall seed format style cell glyphs refresh
func (s *Server) queryOptions(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)

	ints := []struct {
		key string
		dst *int
	}{
		{"width", &opts.Params.Width},
		{"height", &opts.Params.Height},
		{"min_room", &opts.Params.MinRoomSize},
		{"wall", &opts.Params.WallThickness},
		{"cell", &opts.CellSize},
	}
	for _, p := range ints {
		if err := parseInt(q, p.key, p.dst); err != nil {
			return opts, err
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"probability", &opts.Params.SplitProbability},
		{"threshold", &opts.Params.AspectThreshold},
		{"scale", &opts.Scale},
	}
	for _, p := range floats {
		if v := q.Get(p.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", p.key, v)
			}
			*p.dst = f
		}
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed: not an unsigned integer: %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("glyphs"); v != "" {
		opts.Glyphs = v
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh = isTrue(v)
	}
	return opts, nil
}

func parseInt(q url.Values, key string, dst *int) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s: not an integer: %q", key, v)
	}
	*dst = n
	return nil
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
