package security

import "testing"

func TestGenerateSecureTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		token, err := GenerateSecureToken(SessionTokenBytes)
		if err != nil {
			t.Fatalf("GenerateSecureToken returned error: %v", err)
		}
		if token == "" {
			t.Fatal("GenerateSecureToken returned empty string")
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = struct{}{}
	}
}

func TestGenerateSecureTokenRejectsNonPositiveLength(t *testing.T) {
	if _, err := GenerateSecureToken(0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := GenerateSecureToken(-1); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	if a != b {
		t.Fatal("HashToken must be deterministic")
	}
	if a == HashToken("other-token") {
		t.Fatal("distinct inputs must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
