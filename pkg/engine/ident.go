package engine

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DeriveID turns a field name or a composite path segment into a node ID.
//
// The input is split on '-' into segments and each segment on '_' into
// words. The first word of a segment is lower-cased; every later word gets
// an upper-case first letter and a lower-case rest. Words are joined without
// separator and segments rejoined with '-':
//
//	DeriveID("user_profile")        // "userProfile"
//	DeriveID("Orders-0")            // "orders-0"
//	DeriveID("userProfile-leaf")    // "userprofile-leaf"
//
// Composite IDs are derived again as a whole, so casing inside an already
// derived parent ID is normalized once more. Callers rely on this exact
// behavior for connector references; do not "fix" it.
func DeriveID(raw string) string {
	if raw == "" {
		return raw
	}
	segments := strings.Split(raw, "-")
	for i, seg := range segments {
		words := strings.Split(seg, "_")
		var b strings.Builder
		b.Grow(len(seg))
		for j, w := range words {
			if j == 0 {
				b.WriteString(strings.ToLower(w))
				continue
			}
			b.WriteString(capitalize(w))
		}
		segments[i] = b.String()
	}
	return strings.Join(segments, "-")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return strings.ToUpper(string(r)) + strings.ToLower(w[size:])
}

// idRegistry issues node IDs. With dedupe off it returns derived IDs as is;
// with dedupe on a repeated ID gets a "~n" suffix (n from 2). Reserved IDs
// belong to synthetic nodes and are never handed out twice, dedupe or not.
type idRegistry struct {
	dedupe   bool
	issued   map[string]int
	reserved map[string]bool
	dups     int
}

func newIDRegistry(dedupe bool) *idRegistry {
	return &idRegistry{dedupe: dedupe, issued: map[string]int{}, reserved: map[string]bool{}}
}

// reserve issues id and keeps later requests for it from sharing it.
func (r *idRegistry) reserve(id string) string {
	id = r.issue(id)
	r.reserved[id] = true
	return id
}

func (r *idRegistry) issue(id string) string {
	if r.issued[id] == 0 {
		r.issued[id] = 1
		return id
	}
	r.dups++
	if !r.dedupe && !r.reserved[id] {
		r.issued[id]++
		return id
	}
	for n := r.issued[id] + 1; ; n++ {
		cand := id + "~" + strconv.Itoa(n)
		if r.issued[cand] == 0 {
			r.issued[id] = n
			r.issued[cand] = 1
			return cand
		}
	}
}
