package translate

import "testing"

// FuzzIdentityFromText checks the two translation invariants over arbitrary
// text: determinism and staying within the 64-bit bound (expressed by the
// return type, so the interesting property left is determinism and
// text/bytes agreement).
func FuzzIdentityFromText(f *testing.F) {
	f.Add("alice")
	f.Add("")
	f.Add("substrate-with-a-much-longer-name-42")

	f.Fuzz(func(t *testing.T, s string) {
		first := IdentityFromText(s)
		second := IdentityFromText(s)
		if first != second {
			t.Fatalf("translation not deterministic for %q: %d != %d", s, first, second)
		}
		if first != IdentityFromBytes([]byte(s)) {
			t.Fatalf("text and byte translation disagree for %q", s)
		}
	})
}
