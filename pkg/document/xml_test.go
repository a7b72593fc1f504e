package document

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docgraph/pkg/errors"
)

func TestParseXMLElementView(t *testing.T) {
	v, err := ParseXML([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<order id="7" status="open">
  <item>a</item>
  <note>x</note>
  <item>b</item>
</order>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"order"}, keys(v))
	order, _ := Lookup(v, "order")
	assert.Equal(t, []string{"id", "status", "item", "note"}, keys(order))

	id, _ := Lookup(order, "id")
	assert.Equal(t, "7", id.Text())

	items, _ := Lookup(order, "item")
	require.Equal(t, KindArray, items.Kind())
	require.Len(t, items.Items(), 2)
	assert.Equal(t, "a", items.Items()[0].Text())
	assert.Equal(t, "b", items.Items()[1].Text())

	note, _ := Lookup(order, "note")
	assert.Equal(t, KindScalar, note.Kind())
	assert.Equal(t, "x", note.Text())
}

func TestParseXMLText(t *testing.T) {
	v, err := ParseXML([]byte(`<a lang="en"> hello </a><b><c/>tail</b><e></e>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "e"}, keys(v))

	a, _ := Lookup(v, "a")
	assert.Equal(t, []string{"lang", TextKey}, keys(a))
	text, _ := Lookup(a, TextKey)
	assert.Equal(t, "hello", text.Text())

	b, _ := Lookup(v, "b")
	assert.Equal(t, []string{"c", TextKey}, keys(b))
	c, _ := Lookup(b, "c")
	assert.Equal(t, KindScalar, c.Kind())
	assert.Equal(t, "", c.Text())

	e, _ := Lookup(v, "e")
	assert.Equal(t, "", e.Text())
}

func TestParseXMLCDATAAndComments(t *testing.T) {
	v, err := ParseXML([]byte(`<doc><!-- skip --><body><![CDATA[<b>x</b>]]></body></doc>`))
	require.NoError(t, err)
	doc, _ := Lookup(v, "doc")
	assert.Equal(t, []string{"body"}, keys(doc))
	body, _ := Lookup(doc, "body")
	assert.Equal(t, "<b>x</b>", body.Text())
}

func TestParseXMLErrors(t *testing.T) {
	for _, in := range []string{``, "  \n", `<a>`, `<a></b>`, `<a x=1/>`} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseXML([]byte(in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
		})
	}
}

func TestParseXMLTextOnly(t *testing.T) {
	v, err := ParseXML([]byte(`just text`))
	require.NoError(t, err)
	assert.Equal(t, KindScalar, v.Kind())
	assert.Equal(t, "just text", v.Text())
}

func TestFromXMLNode(t *testing.T) {
	doc, err := xmlquery.Parse(strings.NewReader(`<cfg><port>80</port><port>443</port></cfg>`))
	require.NoError(t, err)

	v, err := FromXMLNode(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg"}, keys(v))
	cfg, _ := Lookup(v, "cfg")
	ports, ok := Lookup(cfg, "port")
	require.True(t, ok)
	assert.Len(t, ports.Items(), 2)

	el := xmlquery.FindOne(doc, "//cfg")
	require.NotNil(t, el)
	v2, err := FromXMLNode(el)
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg"}, keys(v2))
	assert.Equal(t, v, v2)

	parsed, err := ParseXML([]byte(`<cfg><port>80</port><port>443</port></cfg>`))
	require.NoError(t, err)
	assert.Equal(t, parsed, v2)

	_, err = FromXMLNode(nil)
	assert.Error(t, err)
}

func TestDetectAndParse(t *testing.T) {
	assert.Equal(t, FormatXML, Detect([]byte("  <a/>")))
	assert.Equal(t, FormatJSON, Detect([]byte(`{"a":1}`)))
	assert.Equal(t, FormatXML, Detect(append([]byte{0xEF, 0xBB, 0xBF}, "<a/>"...)))

	v, err := Parse([]byte(`<a>1</a>`), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys(v))

	_, err = Parse([]byte(`{}`), Format("yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	f, err := ParseFormat("XML")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, IsStructured(Object()))
	assert.True(t, IsStructured(Array()))
	assert.False(t, IsStructured(Scalar("x")))
	assert.False(t, IsStructured(nil))
	assert.True(t, IsEmpty(Object()))
	assert.False(t, IsEmpty(Array(Null())))
	assert.True(t, IsNull(nil))
	assert.Equal(t, "object", KindObject.String())
}
