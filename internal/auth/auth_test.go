package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	token, err := iss.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("claims = %+v, want userId=user-1 username=alice", claims)
	}
}

func TestVerify_RejectsTamperedToken(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	token, err := iss.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	tampered := token[:len(token)-1] + "x"
	if _, err := iss.Verify(tampered); err == nil {
		t.Error("expected Verify to reject a tampered token")
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	iss, err := NewIssuer("test-secret", -time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	token, err := iss.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := iss.Verify(token); err == nil {
		t.Error("expected Verify to reject an expired token")
	}
}

func TestDifferentSecrets_ProduceIncompatibleTokens(t *testing.T) {
	issA, _ := NewIssuer("secret-a", time.Hour)
	issB, _ := NewIssuer("secret-b", time.Hour)
	token, err := issA.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issB.Verify(token); err == nil {
		t.Error("expected Verify with a different secret to fail")
	}
}
