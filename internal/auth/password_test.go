package auth

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if err := ComparePassword(hashed, "s3cret"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordCostOutOfRange(t *testing.T) {
	// Zero and absurd costs clamp to the bcrypt default instead of
	// failing the hash.
	for _, cost := range []int{0, -1, 99} {
		if _, err := HashPassword("s3cret", cost); err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
	}
}
