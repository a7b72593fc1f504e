package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/errors"
)

const sampleDoc = `{"name":"demo","tags":["a","b"],"owner":{"id":7}}`

func newRunner(t *testing.T) (*Runner, *cache.MemoryCache) {
	t.Helper()
	c, err := cache.NewMemoryCache(64)
	require.NoError(t, err)
	return NewRunner(c, nil, nil), c
}

func TestExecute(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, []byte(sampleDoc), Options{Formats: []string{"json", "dot", "mermaid"}})
	require.NoError(t, err)

	assert.Equal(t, cache.Hash([]byte(sampleDoc)), res.DocHash)
	assert.NotEmpty(t, res.GraphHash)
	assert.False(t, res.CacheInfo.BuildHit)
	assert.False(t, res.CacheInfo.RenderHit)
	assert.Equal(t, 1, res.Stats.Strategies[engine.StrategyPrimitive])
	assert.Equal(t, res.Graph.NodeCount(), res.Stats.Graph.Nodes)

	g, err := diagram.UnmarshalGraph(res.Artifacts["json"])
	require.NoError(t, err)
	assert.Equal(t, res.Graph.NodeCount(), g.NodeCount())
	assert.Contains(t, string(res.Artifacts["dot"]), `"root" -> "tags";`)
	assert.True(t, strings.HasPrefix(string(res.Artifacts["mermaid"]), "flowchart TD\n"))

	again, err := r.Execute(ctx, []byte(sampleDoc), Options{Formats: []string{"json", "dot", "mermaid"}})
	require.NoError(t, err)
	assert.True(t, again.CacheInfo.BuildHit, "second build should hit the cache")
	assert.True(t, again.CacheInfo.RenderHit, "second render should hit the cache")
	assert.Equal(t, res.GraphHash, again.GraphHash)
}

func TestExecuteOptionsChangeKeys(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()
	doc := []byte(`{"a_b":{"x":1},"A_B":{"y":2}}`)

	plain, err := r.Execute(ctx, doc, Options{})
	require.NoError(t, err)
	unique, err := r.Execute(ctx, doc, Options{UniqueIDs: true})
	require.NoError(t, err)

	assert.False(t, unique.CacheInfo.BuildHit, "UniqueIDs must not reuse the plain build")
	assert.NotEqual(t, plain.GraphHash, unique.GraphHash)
	assert.Equal(t, []string{"aB", "ab-leaf"}, plain.Graph.DuplicateIDs())
	assert.Empty(t, unique.Graph.DuplicateIDs())
}

func TestExecuteInvalidDocument(t *testing.T) {
	r, c := newRunner(t)

	res, err := r.Execute(context.Background(), []byte(`{"a":`), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
	require.NotNil(t, res)
	require.NotNil(t, res.Graph)
	assert.True(t, res.Graph.IsEmpty())
	assert.Equal(t, 0, c.Len(), "invalid documents are not cached")
}

func TestExecuteEmptyDocument(t *testing.T) {
	r, _ := newRunner(t)
	res, err := r.Execute(context.Background(), nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
	assert.True(t, res.Graph.IsEmpty())
}

func TestExecuteTooLarge(t *testing.T) {
	r, _ := newRunner(t)
	_, err := r.Execute(context.Background(), []byte(sampleDoc), Options{MaxSize: 8})
	assert.True(t, errors.Is(err, errors.ErrCodeTooLarge))
}

func TestExecuteRefresh(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, []byte(sampleDoc), Options{})
	require.NoError(t, err)
	res, err := r.Execute(ctx, []byte(sampleDoc), Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, res.CacheInfo.BuildHit)
	assert.NotEmpty(t, res.Stats.Strategies, "a fresh build reports strategies")
}

func TestBuildXML(t *testing.T) {
	r, _ := newRunner(t)
	g, hit, err := r.BuildWithCacheInfo(context.Background(), []byte(`<doc><item>1</item><item>2</item></doc>`), Options{Format: "xml"})
	require.NoError(t, err)
	assert.False(t, hit)

	n, ok := g.Node("doc-item")
	require.True(t, ok)
	assert.Equal(t, "item {2}", n.MergedContent)
}

func TestRender(t *testing.T) {
	g := diagram.New()
	g.AddNode(diagram.Node{ID: "a", MergedContent: "a"})

	out, err := Render(g, nil, Options{Formats: []string{"json", "mermaid"}})
	require.NoError(t, err)
	assert.Contains(t, string(out["json"]), `"id": "a"`)
	assert.Contains(t, string(out["mermaid"]), "n0(\"a\")")

	_, err = Render(g, nil, Options{Formats: []string{"gif"}})
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	data, err := r.Read(ctx, path, nil, 0, false)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))

	data, err = r.Read(ctx, Stdin, strings.NewReader("<a/>"), 0, false)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(data))

	_, err = r.Read(ctx, filepath.Join(dir, "missing.json"), nil, 0, false)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = r.Read(ctx, dir, nil, 0, false)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))

	_, err = r.Read(ctx, path, nil, 4, false)
	assert.True(t, errors.Is(err, errors.ErrCodeTooLarge))

	_, err = r.Read(ctx, Stdin, strings.NewReader(sampleDoc), 4, false)
	assert.True(t, errors.Is(err, errors.ErrCodeTooLarge))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.json"))
	assert.True(t, IsURL("http://localhost/a.xml"))
	assert.False(t, IsURL("./a.json"))
	assert.False(t, IsURL("-"))
}
