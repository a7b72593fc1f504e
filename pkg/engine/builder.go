package engine

import (
	"strconv"
	"strings"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/document"
	"github.com/matzehuels/docgraph/pkg/errors"
)

// builder walks one document and appends nodes and connectors in document
// order. It is used once and discarded.
type builder struct {
	g        *diagram.Graph
	ids      *idRegistry
	maxDepth int
	used     map[Strategy]int
}

func newBuilder(opts Options) *builder {
	return &builder{
		g:        diagram.New(),
		ids:      newIDRegistry(opts.UniqueIDs),
		maxDepth: opts.maxDepth(),
		used:     map[Strategy]int{},
	}
}

// document builds the top level. Anything but a non-empty object yields an
// empty graph. The root leaf's ID is reserved so a top-level field named
// "root" cannot point a connector back at it.
func (b *builder) document(v document.Value) error {
	if v == nil || v.Kind() != document.KindObject || document.IsEmpty(v) {
		return nil
	}

	p := Classify(v)
	var rootLeaf string
	if len(p.Scalars) > 0 {
		rootLeaf = b.ids.reserve(DeriveID("root"))
		b.leaf(rootLeaf, rootPath(), "", p.Scalars)
	}

	for _, f := range p.Structured {
		if document.IsEmpty(f.Value) {
			continue
		}
		id := b.ids.issue(DeriveID(f.Key))
		path := pathKey(rootPath(), f.Key)
		b.group(id, f.Key, ChildCount(f.Value), path)
		if rootLeaf != "" {
			b.g.Connect(rootLeaf, id)
		}
		if err := b.descend(id, f.Key, f.Value, path, 1); err != nil {
			return err
		}
	}
	return nil
}

// descend expands the structured value v whose group node is parentID.
func (b *builder) descend(parentID, key string, v document.Value, path string, depth int) error {
	if depth > b.maxDepth {
		return errors.New(errors.ErrCodeDepthExceeded, "document nests deeper than %d levels at %s", b.maxDepth, path)
	}
	switch v.Kind() {
	case document.KindObject:
		return b.object(parentID, v, path, depth)
	case document.KindArray:
		return b.array(parentID, key, v, path, depth)
	}
	return errors.New(errors.ErrCodeInternal, "cannot expand %s value at %s", v.Kind(), path)
}

// object merges the scalars of v into one leaf under parentID and hangs a
// group node off parentID for every non-empty structured field.
func (b *builder) object(parentID string, v document.Value, path string, depth int) error {
	p := Classify(v)
	if len(p.Scalars) > 0 {
		leafID := b.ids.issue(DeriveID(parentID + "-" + leafSegment))
		b.leaf(leafID, pathLeaf(path), leafID, p.Scalars)
		b.g.Connect(parentID, leafID)
	}
	return b.children(parentID, p.Structured, path, depth)
}

// children emits a group node per non-empty structured field, connected
// from parentID, and recurses into it.
func (b *builder) children(parentID string, fields []document.Field, path string, depth int) error {
	for _, f := range fields {
		if document.IsEmpty(f.Value) {
			continue
		}
		id := b.ids.issue(DeriveID(parentID + "-" + f.Key))
		childPath := pathKey(path, f.Key)
		b.group(id, f.Key, ChildCount(f.Value), childPath)
		b.g.Connect(parentID, id)
		if err := b.descend(id, f.Key, f.Value, childPath, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// array emits the items of v under the folder node folderID using the
// strategy SelectStrategy picks. Null items are skipped.
func (b *builder) array(folderID, key string, v document.Value, path string, depth int) error {
	if v.Kind() != document.KindArray {
		return errors.New(errors.ErrCodeInternal, "array strategy given %s value at %s", v.Kind(), path)
	}
	items := v.Items()
	strategy := SelectStrategy(items)
	b.used[strategy]++

	for i, item := range items {
		if document.IsNull(item) {
			continue
		}
		itemID := DeriveID(folderID + "-" + strconv.Itoa(i))
		itemPath := pathIndex(path, key, i)

		var err error
		switch strategy {
		case StrategyPrimitive:
			b.scalarItem(folderID, itemID, itemPath, item)
		case StrategyFlatObjects:
			b.objectItem(folderID, itemID, itemPath, item)
		case StrategyMixed:
			err = b.mixedItem(folderID, itemID, itemPath, item, depth)
		case StrategyFallback:
			err = b.fallbackItem(folderID, itemID, key, itemPath, item, depth)
		default:
			err = errors.New(errors.ErrCodeInternal, "unknown array strategy %d", strategy)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) scalarItem(folderID, itemID, path string, item document.Value) {
	id := b.ids.issue(itemID)
	value := FormatValue(item)
	b.g.AddNode(diagram.Node{
		ID:            id,
		Width:         diagram.DefaultNodeWidth,
		Height:        diagram.DefaultNodeHeight,
		Annotations:   []diagram.Annotation{{Content: value}},
		IsLeaf:        true,
		MergedContent: value,
		Path:          path,
		Title:         value,
		ActualData:    item.Text(),
	})
	b.g.Connect(folderID, id)
}

// objectItem emits the merged leaf of a flat object item. It returns the
// issued ID, or "" when the item has no scalars.
func (b *builder) objectItem(folderID, itemID, path string, item document.Value) string {
	p := Classify(item)
	if len(p.Scalars) == 0 {
		return ""
	}
	id := b.ids.issue(itemID)
	b.leaf(id, path, id, p.Scalars)
	b.g.Connect(folderID, id)
	return id
}

func (b *builder) mixedItem(folderID, itemID, path string, item document.Value, depth int) error {
	id := b.objectItem(folderID, itemID, path, item)
	if id == "" {
		return errors.New(errors.ErrCodeInternal, "mixed array item without scalars at %s", path)
	}
	return b.children(id, Classify(item).Structured, path, depth)
}

func (b *builder) fallbackItem(folderID, itemID, key, path string, item document.Value, depth int) error {
	if !document.IsStructured(item) {
		b.scalarItem(folderID, itemID, path, item)
		return nil
	}
	id := b.ids.issue(itemID)
	b.group(id, key, ChildCount(item), path)
	b.g.Connect(folderID, id)
	if document.IsEmpty(item) {
		return nil
	}
	return b.descend(id, key, item, path, depth+1)
}

// leaf appends a merged leaf for scalar fields. Annotation IDs are
// Key_<prefix>_<field> and Value_<prefix>_<field>, or Key_<field> and
// Value_<field> when prefix is empty.
func (b *builder) leaf(id, path, prefix string, fields []document.Field) {
	annotations := make([]diagram.Annotation, 0, 2*len(fields))
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		suffix := f.Key
		if prefix != "" {
			suffix = prefix + "_" + f.Key
		}
		annotations = append(annotations,
			diagram.Annotation{ID: "Key_" + suffix, Content: keyLabel(f.Key)},
			diagram.Annotation{ID: "Value_" + suffix, Content: FormatValue(f.Value)},
		)
		lines = append(lines, mergedLine(f.Key, f.Value))
	}
	merged := strings.Join(lines, "\n")
	b.g.AddNode(diagram.Node{
		ID:            id,
		Width:         diagram.DefaultNodeWidth,
		Height:        diagram.DefaultNodeHeight,
		Annotations:   annotations,
		IsLeaf:        true,
		MergedContent: merged,
		Path:          path,
		Title:         merged,
		ActualData:    merged,
	})
}

// group appends a non-leaf node labeled with key and a "{n}" badge when n
// is positive.
func (b *builder) group(id, key string, n int, path string) {
	annotations := []diagram.Annotation{{Content: key}}
	merged := key
	if n > 0 {
		annotations = append(annotations, diagram.Annotation{Content: badge(n)})
		merged += " " + badge(n)
	}
	b.g.AddNode(diagram.Node{
		ID:            id,
		Width:         diagram.DefaultNodeWidth,
		Height:        diagram.DefaultNodeHeight,
		Annotations:   annotations,
		IsLeaf:        false,
		MergedContent: merged,
		Path:          path,
		Title:         key,
		ActualData:    key,
	})
}
