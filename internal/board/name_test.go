package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		raw  string
		want Name
		err  error
	}{
		{raw: "Ann", want: "Ann"},
		{raw: "  Ann  ", want: "Ann"},
		{raw: "Mary \t  Jane", want: "Mary Jane"},
		{raw: "ann", want: "ann"},
		{raw: "", err: ErrEmptyName},
		{raw: " \n\t ", err: ErrEmptyName},
	}
	for _, tt := range tests {
		got, err := ParseName(tt.raw)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseName(%q) err = %v, want %v", tt.raw, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSimilarNames(t *testing.T) {
	known := names("Anna", "Bob", "Kasia", "Tomasz", "ann")

	tests := []struct {
		candidate Name
		want      []Name
	}{
		{candidate: "Ann", want: names("ann")},
		{candidate: "Ana", want: nil},
		{candidate: "Kasai", want: nil},
		{candidate: "Kasia", want: nil},
		{candidate: "kasia", want: names("Kasia")},
		{candidate: "Tomek", want: nil},
		{candidate: "Tomas", want: names("Tomasz")},
		{candidate: "Bobby", want: nil},
	}
	for _, tt := range tests {
		got := SimilarNames(tt.candidate, known)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SimilarNames(%q) mismatch (-want +got):\n%s", tt.candidate, diff)
		}
	}
}
