package jwt

import "testing"

func TestIssueParseRoundTrip(t *testing.T) {
	tok, err := Issue("test-secret", "u-7", "student", 1)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseAuth("Bearer "+tok, "test-secret")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := Subject(claims)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "u-7" {
		t.Fatalf("sub = %q, want u-7", sub)
	}
	if role, _ := claims["role"].(string); role != "student" {
		t.Fatalf("role = %q, want student", role)
	}
}

func TestParseAuth_BareToken(t *testing.T) {
	tok, err := Issue("test-secret", "u-7", "student", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAuth(tok, "test-secret"); err != nil {
		t.Fatalf("bare token rejected: %v", err)
	}
}

func TestParseAuth_WrongSecret(t *testing.T) {
	tok, err := Issue("test-secret", "u-7", "student", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAuth("Bearer "+tok, "other-secret"); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseAuth_MissingHeader(t *testing.T) {
	if _, err := ParseAuth("", "test-secret"); err == nil {
		t.Fatal("empty header must be rejected")
	}
	if _, err := ParseAuth("Bearer ", "test-secret"); err == nil {
		t.Fatal("empty bearer token must be rejected")
	}
}

func TestSubject_Missing(t *testing.T) {
	if _, err := Subject(map[string]any{"role": "student"}); err == nil {
		t.Fatal("claims without sub must be rejected")
	}
}
