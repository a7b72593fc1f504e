package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	g, _ := engine.FromJSON([]byte(`{"name":"demo","tags":["a","b"]}`))

	dot := nodelink.ToDOT(g, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "root" -> "tags";
	// "tags" -> "tags-0";
	// "tags" -> "tags-1";
}
