package engine

import (
	"strconv"

	"github.com/matzehuels/docgraph/pkg/diagram"
)

// Path segments locate a node in the source document:
//
//	Root.settings.leaf          scalars merged under "settings"
//	Root/items[0].tags          field "tags" of the first "items" element
const leafSegment = "leaf"

func rootPath() string { return diagram.RootPath }

func pathKey(parent, key string) string { return parent + "." + key }

func pathIndex(parent, key string, i int) string {
	return parent + "/" + key + "[" + strconv.Itoa(i) + "]"
}

func pathLeaf(parent string) string { return parent + "." + leafSegment }
