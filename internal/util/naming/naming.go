package naming

import "strings"

// Canonical node names.
const (
	Blue   = "blue"
	Orange = "orange"
)

// NameTagKey is the EC2 tag key instances are looked up by.
const NameTagKey = "Name"

// Canonical returns the canonical node name for a Name tag value.
// "blue" takes precedence over "orange"; tags containing neither
// are returned unchanged.
func Canonical(tag string) string {
	lower := strings.ToLower(tag)
	switch {
	case strings.Contains(lower, Blue):
		return Blue
	case strings.Contains(lower, Orange):
		return Orange
	default:
		return tag
	}
}

// TagFilterValues returns the Name tag patterns used to find both nodes.
// EC2 filters accept '*' wildcards but match case-sensitively, so each name
// is sent in lower, title and upper case: "Blue-Server" matches "*Blue*".
// Mixed spellings such as "bLuE" are not found.
func TagFilterValues() []string {
	var values []string
	for _, name := range []string{Blue, Orange} {
		title := strings.ToUpper(name[:1]) + name[1:]
		values = append(values, "*"+name+"*", "*"+title+"*", "*"+strings.ToUpper(name)+"*")
	}
	return values
}
