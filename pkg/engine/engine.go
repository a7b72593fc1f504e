package engine

import (
	"github.com/antchfx/xmlquery"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/diagram/transform"
	"github.com/matzehuels/docgraph/pkg/document"
	"github.com/matzehuels/docgraph/pkg/errors"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is not set.
const DefaultMaxDepth = 512

// Options controls a build. The zero value is ready to use.
type Options struct {
	// MaxDepth aborts builds of documents nested deeper than this many
	// structured levels. Zero or less means DefaultMaxDepth.
	MaxDepth int

	// UniqueIDs suffixes repeated node IDs with "~n" instead of emitting
	// duplicates.
	UniqueIDs bool

	// SkipNormalize leaves a multi-root graph without the anchor node.
	SkipNormalize bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth sets Options.MaxDepth.
func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

// WithUniqueIDs sets Options.UniqueIDs.
func WithUniqueIDs(on bool) Option { return func(o *Options) { o.UniqueIDs = on } }

// WithoutNormalize sets Options.SkipNormalize.
func WithoutNormalize() Option { return func(o *Options) { o.SkipNormalize = true } }

func collect(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Result is a built graph plus what the build observed on the way.
type Result struct {
	Graph *diagram.Graph

	// Strategies counts arrays by the strategy chosen for them.
	Strategies map[Strategy]int

	// RootsAttached is the number of roots joined under the anchor node,
	// zero when no anchor was added.
	RootsAttached int

	// Collisions counts node IDs that were derived more than once.
	Collisions int
}

// Build turns a document value into a graph.
//
// A nil value, a non-object or an empty object yields an empty graph and no
// error. On error the returned result still holds an empty graph.
func Build(v document.Value, opts Options) (*Result, error) {
	b := newBuilder(opts)
	if err := b.document(v); err != nil {
		return &Result{Graph: diagram.New(), Strategies: map[Strategy]int{}}, err
	}
	res := &Result{Graph: b.g, Strategies: b.used, Collisions: b.ids.dups}
	if !opts.SkipNormalize {
		res.RootsAttached = transform.NormalizeRoots(b.g)
	}
	return res, nil
}

// FromDocument builds a graph from a document value.
func FromDocument(v document.Value, opts ...Option) (*diagram.Graph, error) {
	res, err := Build(v, collect(opts))
	return res.Graph, err
}

// FromJSONValue builds a graph from an already-decoded JSON value, as
// produced by encoding/json into an any.
func FromJSONValue(v any, opts ...Option) (*diagram.Graph, error) {
	doc, err := document.FromAny(v)
	if err != nil {
		return diagram.New(), err
	}
	return FromDocument(doc, opts...)
}

// FromJSON parses JSON text and builds a graph. Syntax errors yield an
// empty graph and an error coded [errors.ErrCodeInvalidDocument].
func FromJSON(data []byte, opts ...Option) (*diagram.Graph, error) {
	doc, err := document.ParseJSON(data)
	if err != nil {
		return diagram.New(), err
	}
	return FromDocument(doc, opts...)
}

// FromXMLElementTree builds a graph from a parsed XML element or document.
func FromXMLElementTree(n *xmlquery.Node, opts ...Option) (*diagram.Graph, error) {
	doc, err := document.FromXMLNode(n)
	if err != nil {
		return diagram.New(), err
	}
	return FromDocument(doc, opts...)
}

// FromXML parses XML markup and builds a graph. Malformed markup yields an
// empty graph and an error coded [errors.ErrCodeInvalidDocument].
func FromXML(data []byte, opts ...Option) (*diagram.Graph, error) {
	doc, err := document.ParseXML(data)
	if err != nil {
		return diagram.New(), err
	}
	return FromDocument(doc, opts...)
}

// FromBytes parses data in the given format (auto sniffs) and builds.
func FromBytes(data []byte, format document.Format, opts ...Option) (*Result, error) {
	doc, err := document.Parse(data, format)
	if err != nil {
		return &Result{Graph: diagram.New(), Strategies: map[Strategy]int{}}, err
	}
	return Build(doc, collect(opts))
}

// IsInvalid reports whether err marks the document itself as unusable, as
// opposed to a bug or a misconfiguration.
func IsInvalid(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidDocument) || errors.Is(err, errors.ErrCodeDepthExceeded)
}
