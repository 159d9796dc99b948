package redis

import "testing"

func TestVectorToBytes_Width(t *testing.T) {
	v := []float32{0.1, -2.5, 3.75}
	b := vectorToBytes(v)
	if len(b) != len(v)*4 {
		t.Fatalf("expected %d bytes, got %d", len(v)*4, len(b))
	}
}

func TestEscapeWildcard(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"don't", `don\'t`},
		{`back\slash`, `back\\slash`},
		{"star*here?", `star\*here\?`},
	}
	for _, tc := range cases {
		if got := escapeWildcard(tc.in); got != tc.want {
			t.Errorf("escapeWildcard(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
