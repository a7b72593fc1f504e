// Package document turns JSON and XML input into one ordered value tree.
//
// The graph engine never sees a parser. It walks [Value], a small read-only
// view with four kinds (null, scalar, object, array) that both input
// adapters produce:
//
//   - [ParseJSON] decodes with json-iterator's streaming iterator so that
//     object fields keep their source order.
//   - [ParseXML] parses with antchfx/xmlquery and views each element as an
//     object whose fields are its attributes, its child elements grouped by
//     tag, and its text.
//   - [FromAny] adapts values that were already decoded in memory.
//
// # Scalars
//
// Scalars carry their raw text: JSON strings unquoted, numbers exactly as
// written in the source, booleans as true/false. Display formatting is the
// engine's business.
//
// # XML Element View
//
// An element with neither attributes nor child elements is a scalar holding
// its trimmed text. Any other element is an object:
//
//	<order id="7">           {"id": "7",
//	  <item>a</item>    =>    "item": ["a", "b"],
//	  <item>b</item>          "note": "x"}
//	  <note>x</note>
//	</order>
//
// Sibling elements sharing a tag collapse into one array-valued field at the
// position of the first occurrence. Non-blank text next to attributes or
// child elements is kept under the key "_".
package document
