package cache

// TOCKeyOpts are the options that change a numbered TOC.
type TOCKeyOpts struct {
	Root       int64  `json:"root"`
	Target     int64  `json:"target,omitempty"`
	ConfigHash string `json:"config"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Styled  bool   `json:"styled,omitempty"`
	ShowIDs bool   `json:"show_ids,omitempty"`
}

// Keyer produces cache keys for pipeline stages.
type Keyer interface {
	// TOCKey keys the TOC entry tree computed from inputs hashing to
	// inputHash.
	TOCKey(inputHash string, opts TOCKeyOpts) string
	// ArtifactKey keys one rendered format of the TOC hashing to tocHash.
	ArtifactKey(tocHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes inputs and options into "toc:<hash>" and
// "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TOCKey implements Keyer.
func (DefaultKeyer) TOCKey(inputHash string, opts TOCKeyOpts) string {
	return hashKey("toc", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tocHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tocHash, opts)
}
