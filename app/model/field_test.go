package model

import (
	"reflect"
	"testing"
)

func TestCanonicalField(t *testing.T) {
	cases := map[string]string{
		"email":               "Contact Information",
		"contact":             "Contact Information",
		"personal":            "Personal Details",
		"division":            "Academic Summary & Division",
		"summary":             "Academic Summary & Division",
		"subjects":            "Detailed Subject Scores",
		"scores":              "Detailed Subject Scores",
		"basic":               "Basic Verification",
		"Contact Information": "Contact Information",
		"Basic Verification":  "Basic Verification",
	}
	for input, want := range cases {
		got, ok := CanonicalField(input)
		if !ok {
			t.Fatalf("expected %q to be in the catalog", input)
		}
		if got != want {
			t.Fatalf("%q: expected %q, got %q", input, want, got)
		}
	}

	for _, input := range []string{"", "ssn", "EMAIL", "contact information"} {
		if _, ok := CanonicalField(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	got := NormalizeFields([]string{"subjects", "email", "Detailed Subject Scores", "bogus", "email"})
	want := []string{FieldSubjectScores, FieldContactInfo}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := NormalizeFields(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
