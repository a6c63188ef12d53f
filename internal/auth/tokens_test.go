package auth

import "testing"

func TestHostTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret")

	tok, err := tokens.IssueHostToken("123456")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !tokens.VerifyHostToken(tok, "123456") {
		t.Fatalf("freshly issued token rejected")
	}
}

func TestHostTokenScopedToRoom(t *testing.T) {
	tokens := NewTokens("test-secret")
	tok, err := tokens.IssueHostToken("123456")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tokens.VerifyHostToken(tok, "654321") {
		t.Fatalf("token for one room accepted in another")
	}
}

func TestHostTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewTokens("secret-a").IssueHostToken("123456")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if NewTokens("secret-b").VerifyHostToken(tok, "123456") {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestHostTokenRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret")
	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		if tokens.VerifyHostToken(bad, "123456") {
			t.Fatalf("garbage token %q accepted", bad)
		}
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := NewSessionToken()
		if tok == "" || seen[tok] {
			t.Fatalf("duplicate or empty session token %q", tok)
		}
		seen[tok] = true
	}
}
