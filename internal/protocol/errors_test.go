package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{ErrProtoBadRequest, ErrBadConfig, ErrBuildFailed, ErrInternal} {
		if !IsKnownCode(code) {
			t.Fatalf("code %q should be known", code)
		}
	}
	if IsKnownCode("E_NOPE") {
		t.Fatalf("unknown code accepted")
	}
	if !IsKnownCode("") {
		t.Fatalf("empty code should pass (no error)")
	}
}
