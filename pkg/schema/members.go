package schema

import "strings"

// Member is one node of the value tree of a section, built from the local
// paths of its fields so `cta.label` and `cta.href` share a `cta` object.
// A member can carry a field and children at once when one field's path is
// a prefix of another's.
type Member struct {
	Name     string
	Field    *FieldSchema
	Children []*Member

	index map[string]*Member
}

// Members builds the value tree of section. Wildcard segments are dropped,
// so the members of a repeater describe one item. When two fields land on
// the same member the first one is kept; Collisions reports those pairs.
func Members(section SectionSchema) *Member {
	root := &Member{}
	for _, field := range section.Fields {
		root.insert(field)
	}
	return root
}

func (m *Member) insert(field FieldSchema) {
	cur := m
	for _, segment := range LocalSegments(field) {
		child, ok := cur.index[segment]
		if !ok {
			child = &Member{Name: segment}
			if cur.index == nil {
				cur.index = map[string]*Member{}
			}
			cur.index[segment] = child
			cur.Children = append(cur.Children, child)
		}
		cur = child
	}
	if cur.Field == nil {
		f := field
		cur.Field = &f
	}
}

// Required reports whether a value must be present: the member's own field
// is required or any descendant is.
func (m *Member) Required() bool {
	if m.Field != nil && m.Field.IsRequired() {
		return true
	}
	for _, child := range m.Children {
		if child.Required() {
			return true
		}
	}
	return false
}

// LocalSegments returns the member path of field inside its section: the
// segments of its key without wildcards, or "value" when nothing remains.
func LocalSegments(field FieldSchema) []string {
	var out []string
	for _, segment := range strings.Split(field.Key, ".") {
		if segment == "" || segment == WildcardSegment {
			continue
		}
		out = append(out, segment)
	}
	if len(out) == 0 {
		return []string{"value"}
	}
	return out
}

// Collision pairs a field with the earlier field of its section that owns
// the same member.
type Collision struct {
	Path  string
	Owner string
}

// Collisions lists the fields of section whose member is already taken by
// an earlier field, for example `list._.title` next to `list.title`. Fields
// without a key and repeats of one path are skipped.
func Collisions(section SectionSchema) []Collision {
	owners := map[string]string{}
	var out []Collision
	for _, field := range section.Fields {
		if field.Key == "" {
			continue
		}
		member := strings.Join(LocalSegments(field), ".")
		owner, ok := owners[member]
		if !ok {
			owners[member] = field.Path
			continue
		}
		if owner != field.Path {
			out = append(out, Collision{Path: field.Path, Owner: owner})
		}
	}
	return out
}
