package compat

import (
	"testing"

	"github.com/jacoelho/jpc/internal/path"
)

type stubPredicate string

func (p stubPredicate) String() string { return string(p) }

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		predicates []path.Predicate
		portable   bool
		reason     string
	}{
		{name: "root", path: "$", portable: true},
		{name: "properties_and_index", path: "$.store.book[0].title", portable: true},
		{name: "deep_scan", path: "$..author", portable: true},
		{name: "wildcard", path: "$.store.*", portable: true},
		{name: "slice", path: "$.book[1:5:2]", portable: true},
		{name: "negative_index", path: "$.book[-1]", portable: true},
		{name: "multiple_names", path: "$['a','b']", portable: true},
		{name: "inline_filter", path: "$.book[?(@.price < 10)]", portable: true},
		{name: "relative_root", path: "@.price", reason: reasonRelativeRoot},
		{name: "bare_relative_root", path: "@", reason: reasonRelativeRoot},
		{name: "function", path: "$.book.length()"},
		{
			name:       "placeholder",
			path:       "$.book[?]",
			predicates: []path.Predicate{stubPredicate("cheap")},
			reason:     reasonPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := path.MustCompile(tt.path, tt.predicates...)
			got := Check(p)

			if got.Portable != tt.portable {
				t.Fatalf("Check(%q).Portable = %v, want %v (reason %q)", tt.path, got.Portable, tt.portable, got.Reason)
			}
			if tt.portable && got.Reason != "" {
				t.Errorf("Check(%q).Reason = %q, want empty", tt.path, got.Reason)
			}
			if !tt.portable && got.Reason == "" {
				t.Errorf("Check(%q).Reason is empty", tt.path)
			}
			if tt.reason != "" && got.Reason != tt.reason {
				t.Errorf("Check(%q).Reason = %q, want %q", tt.path, got.Reason, tt.reason)
			}
		})
	}
}
