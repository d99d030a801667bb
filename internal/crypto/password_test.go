package crypto

import (
	"strings"
	"testing"
)

// testParams keeps argon2 cheap in tests.
func testParams() HashParams {
	return HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHasherHash(t *testing.T) {
	h := NewHasher(DefaultHashParams())
	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestHasherVerify(t *testing.T) {
	h := NewHasher(testParams())
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "my-secure-password", true},
		{"wrong password", "wrong-password", false},
		{"empty password", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasherVerifyUsesStoredParams(t *testing.T) {
	old := NewHasher(testParams())
	hash, err := old.Hash("pw-12345678")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	current := NewHasher(DefaultHashParams())
	ok, err := current.Verify("pw-12345678", hash)
	if err != nil || !ok {
		t.Fatalf("Verify() = %v, %v; want true, nil", ok, err)
	}
	if !current.NeedsRehash(hash) {
		t.Error("NeedsRehash() = false for hash with old params")
	}
	if old.NeedsRehash(hash) {
		t.Error("NeedsRehash() = true for hash with current params")
	}
}

func TestHasherSaltDiffers(t *testing.T) {
	h := NewHasher(testParams())
	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestHasherVerifyInvalidHash(t *testing.T) {
	h := NewHasher(testParams())
	tests := []struct {
		hash string
		want error
	}{
		{"invalid-hash-format", ErrInvalidHashFormat},
		{"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5", ErrInvalidHashFormat},
		{"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		{"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5", ErrInvalidHashFormat},
	}
	for _, tt := range tests {
		if _, err := h.Verify("password", tt.hash); err != tt.want {
			t.Errorf("Verify(%q) error = %v, want %v", tt.hash, err, tt.want)
		}
	}
}
