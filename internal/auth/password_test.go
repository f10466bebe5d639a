package auth

import (
	"strings"
	"testing"
)

func TestPasswordHashingLifecycle(t *testing.T) {
	password := "S3curePass!"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" || hash == password {
		t.Fatal("expected hash to be populated and differ from the password")
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Fatalf("expected password to verify, got error: %v", err)
	}

	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected error for blank password")
	}
	if err := VerifyPassword("", "anything"); err == nil {
		t.Fatal("expected error for empty stored hash")
	}
}

func TestBurnCompareDoesNotPanic(t *testing.T) {
	BurnCompare("whatever")
	BurnCompare("")
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "ok", password: "longenough1"},
		{name: "exactly max bytes", password: strings.Repeat("a", MaxPasswordBytes)},
		{name: "too short", password: "short", wantErr: true},
		{name: "blank", password: "        ", wantErr: true},
		{name: "too long", password: strings.Repeat("a", MaxPasswordBytes+1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if _, err := HashPassword(tt.password); err != nil {
					t.Fatalf("accepted password must hash: %v", err)
				}
			}
		})
	}
}
