package host

import "testing"

func TestRemoveTags(t *testing.T) {
	if got := RemoveTags("<col=ffffff>Bob</col><img=2>"); got != "Bob" {
		t.Fatalf("got %q", got)
	}
}

func TestToJagexName(t *testing.T) {
	cases := map[string]string{
		"Iron_Man":           "Iron Man",
		"a-b c":              "a b c",
		"\u00a0Zezima\u00a0": "Zezima",
		"Bob\u00e9":          "Bob",
	}
	for in, want := range cases {
		if got := ToJagexName(in); got != want {
			t.Fatalf("ToJagexName(%q) = %q, want %q", in, got, want)
		}
	}
}
