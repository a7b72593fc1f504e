package cache

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a fetched remote document.
	HTTPKey(namespace, key string) string
	// GraphKey keys a graph built from a document with the given hash.
	GraphKey(docHash string, opts GraphKeyOpts) string
	// ArtifactKey keys a rendering of a graph with the given hash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the build options that change a graph.
type GraphKeyOpts struct {
	Format    string `json:"format"`
	MaxDepth  int    `json:"max_depth"`
	UniqueIDs bool   `json:"unique_ids"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
	Rankdir  string `json:"rankdir,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey hashes the document hash together with the options.
func (DefaultKeyer) GraphKey(docHash string, opts GraphKeyOpts) string {
	return hashKey("graph", docHash, opts)
}

// ArtifactKey hashes the graph hash together with the options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
