package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// Keyer derives cache keys.
type Keyer interface {
	// MapKey identifies the map generated from params with seed.
	MapKey(params dungeon.Params, seed uint64) string

	// ArtifactKey identifies one rendering of the map whose snapshot hashes to mapHash.
	ArtifactKey(mapHash string, opts ArtifactKeyOpts) string

	// TreeKey identifies a rendered partition tree diagram.
	TreeKey(params dungeon.Params, seed uint64, detailed bool) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style,omitempty"`
	CellSize int     `json:"cell_size,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Glyphs   string  `json:"glyphs,omitempty"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) MapKey(params dungeon.Params, seed uint64) string {
	return hashKey("map", params, seed)
}

func (DefaultKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", mapHash, opts)
}

func (DefaultKeyer) TreeKey(params dungeon.Params, seed uint64, detailed bool) string {
	return hashKey("tree", params, seed, detailed)
}

var _ Keyer = DefaultKeyer{}

// WithPrefix namespaces every key of k, so deployments sharing one Redis
// database stay apart. A nil k means [DefaultKeyer]; an empty prefix returns k.
func WithPrefix(k Keyer, prefix string) Keyer {
	if k == nil {
		k = DefaultKeyer{}
	}
	if prefix == "" {
		return k
	}
	return prefixed{k, prefix}
}

type prefixed struct {
	Keyer
	prefix string
}

func (p prefixed) MapKey(params dungeon.Params, seed uint64) string {
	return p.prefix + p.Keyer.MapKey(params, seed)
}

func (p prefixed) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return p.prefix + p.Keyer.ArtifactKey(mapHash, opts)
}

func (p prefixed) TreeKey(params dungeon.Params, seed uint64, detailed bool) string {
	return p.prefix + p.Keyer.TreeKey(params, seed, detailed)
}

// hashKey returns "kind:" followed by the SHA-256 of the JSON encoding of parts.
// Struct fields encode in declaration order, so equal parts give equal keys.
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
