package document

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// Migration rewrites a legacy document shape into the current one.
//
// AppliesTo inspects the detected version and content. Apply must not modify
// its arguments and must be idempotent. FromVersion, when set, is a legacy
// envelope version this migration upgrades; it makes that version loadable.
type Migration struct {
	Name        string
	FromVersion string
	AppliesTo   func(version string, g *graph.Graph, audio *AudioSetup) bool
	Apply       func(g *graph.Graph, audio *AudioSetup) (*graph.Graph, *AudioSetup)
}

// Registry is an ordered list of migrations.
type Registry struct {
	migrations []Migration
}

// NewRegistry returns a registry running ms in order.
func NewRegistry(ms ...Migration) *Registry {
	return &Registry{migrations: slices.Clone(ms)}
}

// DefaultRegistry returns a registry holding the built-in migrations.
func DefaultRegistry() *Registry {
	return NewRegistry(BandRemapMigration())
}

// Register appends m. It is meant for setup, before the registry is shared.
func (r *Registry) Register(m Migration) {
	r.migrations = append(r.migrations, m)
}

// Migrations returns the registered migrations in run order.
func (r *Registry) Migrations() []Migration {
	return slices.Clone(r.migrations)
}

// SupportedVersions returns the current version plus every legacy version a
// migration upgrades from, sorted.
func (r *Registry) SupportedVersions() []string {
	versions := []string{CurrentVersion}
	for _, m := range r.migrations {
		if m.FromVersion != "" {
			versions = append(versions, m.FromVersion)
		}
	}
	return sortedUnique(versions)
}

// Supports reports whether documents of version can be loaded.
func (r *Registry) Supports(version string) bool {
	return slices.Contains(r.SupportedVersions(), version)
}

// Fingerprint identifies the migration set. It changes whenever a migration
// is added, removed or reordered, and is used to key cached documents.
func (r *Registry) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(CurrentVersion))
	for _, m := range r.migrations {
		h.Write([]byte{0})
		h.Write([]byte(m.Name))
		h.Write([]byte{0})
		h.Write([]byte(m.FromVersion))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Run applies every matching migration in order and returns the rewritten
// graph and audio setup with the names of the migrations that ran.
func (r *Registry) Run(version string, g *graph.Graph, audio *AudioSetup) (*graph.Graph, *AudioSetup, []string) {
	var applied []string
	for _, m := range r.migrations {
		if m.AppliesTo != nil && !m.AppliesTo(version, g, audio) {
			continue
		}
		g, audio = m.Apply(g, audio)
		applied = append(applied, m.Name)
	}
	return g, audio, applied
}

// =============================================================================
// Band remap
// =============================================================================

// Source node id patterns for audio band signals.
const (
	legacyBandPrefix = "audio-signal:band-"
	legacyBandSuffix = "-remap"
	remapBandPrefix  = "audio-signal:remap-band-"
)

// BandRemapMigration moves per-band remap settings onto remapper entities.
//
// Connections sourced from "audio-signal:band-{id}-remap" are rewritten to
// "audio-signal:remap-band-{id}", and a remapper {id: "band-{id}", bandId:
// id} is added for each band that has none. Documents without an audio setup
// are left untouched.
func BandRemapMigration() Migration {
	return Migration{
		Name: "band-remap-to-remappers",
		AppliesTo: func(_ string, g *graph.Graph, audio *AudioSetup) bool {
			if g == nil || audio == nil {
				return false
			}
			return slices.ContainsFunc(g.Connections, func(c graph.Connection) bool {
				_, ok := legacyBandID(c.SourceNodeID)
				return ok
			})
		},
		Apply: applyBandRemap,
	}
}

func applyBandRemap(g *graph.Graph, audio *AudioSetup) (*graph.Graph, *AudioSetup) {
	if g == nil || audio == nil {
		return g, audio
	}
	next := *g
	next.Connections = slices.Clone(g.Connections)
	out := audio.Clone()
	if out.Remappers == nil {
		out.Remappers = []Remapper{}
	}

	for i, c := range next.Connections {
		bandID, ok := legacyBandID(c.SourceNodeID)
		if !ok {
			continue
		}
		next.Connections[i].SourceNodeID = RemapSourceID(bandID)
		if !out.HasRemapperFor(bandID) {
			out.Remappers = append(out.Remappers, Remapper{ID: "band-" + bandID, BandID: bandID})
		}
	}
	return &next, out
}

// RemapSourceID returns the connection source id of a band's remapper.
func RemapSourceID(bandID string) string {
	return remapBandPrefix + bandID
}

func legacyBandID(source string) (string, bool) {
	rest, ok := strings.CutPrefix(source, legacyBandPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, legacyBandSuffix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
