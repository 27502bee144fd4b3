package annotation

import "strings"

// Filter returns the annotations whose description starts with prefix, in
// their original order. Matching is case-sensitive; an empty prefix matches all.
func Filter(prefix string, annotations []Annotation) []Annotation {
	out := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		if Matches(prefix, a.Description) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether a description is selected by prefix.
func Matches(prefix, description string) bool {
	return strings.HasPrefix(description, prefix)
}
