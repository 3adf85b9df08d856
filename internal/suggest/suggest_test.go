package suggest

import "testing"

func TestClosest(t *testing.T) {
	candidates := []string{"profile", "interest", "setting"}
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "profle", want: "profile", ok: true},
		{input: "Settings", want: "setting", ok: true},
		{input: "billing"},
		{input: ""},
	}
	for _, tt := range tests {
		got, ok := Closest(tt.input, candidates)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("%q: want (%q, %v), got (%q, %v)", tt.input, tt.want, tt.ok, got, ok)
		}
	}
}

func TestHint(t *testing.T) {
	if got := Hint("intrest", []string{"interest"}); got != ` (did you mean "interest"?)` {
		t.Fatalf("unexpected hint %q", got)
	}
	if got := Hint("zzz", []string{"interest"}); got != "" {
		t.Fatalf("expected no hint, got %q", got)
	}
}
