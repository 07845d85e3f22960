package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2-but-longer", bcryptTestCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2-but-longer" {
		t.Fatal("hash must not equal the plaintext")
	}

	ok, err := CheckPassword("hunter2-but-longer", hash)
	if err != nil {
		t.Fatalf("CheckPassword failed: %v", err)
	}
	if !ok {
		t.Fatal("expected password to match its own hash")
	}

	ok, err = CheckPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("CheckPassword failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	if _, err := CheckPassword("anything", "not-a-bcrypt-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

// bcryptTestCost keeps the test fast; production cost comes from config.
const bcryptTestCost = 4
