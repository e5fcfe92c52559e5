package board

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Name identifies a person. The same Name is used for a pool entry and for
// the slot that belongs to that person.
type Name string

// ParseName normalises user input into a Name: surrounding whitespace is
// trimmed and internal runs of whitespace collapse to one space.
func ParseName(raw string) (Name, error) {
	n := strings.Join(strings.Fields(raw), " ")
	if n == "" {
		return "", ErrEmptyName
	}
	return Name(n), nil
}

func (n Name) String() string { return string(n) }

// minFuzzyLen is the shortest name compared by edit distance; below it a
// single edit turns almost any name into another.
const minFuzzyLen = 4

// SimilarNames returns the known names that look like a different spelling
// of candidate: equal ignoring case, or one edit apart.
func SimilarNames(candidate Name, known []Name) []Name {
	c := strings.ToLower(string(candidate))
	var out []Name
	for _, k := range known {
		if k == candidate {
			continue
		}
		other := strings.ToLower(string(k))
		if other == c {
			out = append(out, k)
			continue
		}
		if utf8.RuneCountInString(c) < minFuzzyLen || utf8.RuneCountInString(other) < minFuzzyLen {
			continue
		}
		if levenshtein.ComputeDistance(c, other) <= 1 {
			out = append(out, k)
		}
	}
	return out
}
