package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("my-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := Verify("my-secret", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected matching secret to verify")
	}

	ok, err = Verify("wrong-secret", hash)
	if err != nil {
		t.Fatalf("verify wrong secret: %v", err)
	}
	if ok {
		t.Error("expected mismatching secret to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("my-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("my-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$argon2id$v=19$m=65536,t=3,p=2$bad"} {
		if _, err := Verify("secret", hash); err == nil {
			t.Errorf("hash %q: expected error", hash)
		}
	}
}
