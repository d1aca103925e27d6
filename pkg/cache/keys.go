package cache

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey keys a migrated document by the hash of its source bytes
	// and the fingerprint of the migration registry that rewrote it.
	DocumentKey(contentHash, registryVersion string) string

	// ExportKey keys a rendered export of a graph.
	ExportKey(graphHash string, opts ExportKeyOpts) string
}

// ExportKeyOpts holds the render options that change export output.
type ExportKeyOpts struct {
	Format    string  `json:"format"`
	Direction string  `json:"direction,omitempty"`
	Params    bool    `json:"params,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements [Keyer].
func (DefaultKeyer) DocumentKey(contentHash, registryVersion string) string {
	return hashKey("document", contentHash, registryVersion)
}

// ExportKey implements [Keyer].
func (DefaultKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return hashKey("export", graphHash, opts)
}
