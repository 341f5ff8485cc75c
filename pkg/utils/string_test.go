package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   \t\n ", want: ""},
		{name: "inner runs", input: "a  b\t\tc\n\nd", want: "a b c d"},
		{name: "trim", input: "  hello world  ", want: "hello world"},
		{name: "no-break space", input: "a\u00a0\u00a0b", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.input); got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" status, totalResults;;urlToImage , ")
	want := []string{"status", "totalResults", "urlToImage"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}

	if got := SplitList(""); len(got) != 0 {
		t.Errorf("SplitList(\"\") = %v, want empty", got)
	}
}
