package password

import (
	"testing"
)

func TestHash(t *testing.T) {
	h := New("")

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "regular password",
			password: "Admin@123",
			want:     "YXBwb2ludG1lbnRfc3lzdGVtX0FkbWluQDEyMw==",
		},
		{
			name:     "short password",
			password: "a",
			want:     "YXBwb2ludG1lbnRfc3lzdGVtX2E=",
		},
		{
			name:     "empty password",
			password: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Hash(tt.password); got != tt.want {
				t.Errorf("Hash() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	h := New(DefaultSalt)
	for _, pw := range []string{"abc12345", "p@ssw0rd!", "Student@123", "verylongpasswordwithmorethanfiftycharacters1234567"} {
		if h.Hash(pw) != h.Hash(pw) {
			t.Errorf("Hash(%q) is not deterministic", pw)
		}
	}
}

func TestHash_DifferentPasswordsProduceDifferentHashes(t *testing.T) {
	h := New("")
	corpus := []string{"password1", "password2", "abc12345", "abc12346", "Admin@123", "Teacher@123", "Student@123", " "}
	seen := make(map[string]string, len(corpus))
	for _, pw := range corpus {
		got := h.Hash(pw)
		if prev, ok := seen[got]; ok {
			t.Errorf("passwords %q and %q produced identical hashes", prev, pw)
		}
		seen[got] = pw
	}
}

func TestHash_SaltMatters(t *testing.T) {
	if New("one_").Hash("secret") == New("two_").Hash("secret") {
		t.Error("different salts produced identical hashes")
	}
}

func TestCompare(t *testing.T) {
	h := New("")
	correctHash := h.Hash("correct_password")

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{
			name:        "matching password",
			hash:        correctHash,
			password:    "correct_password",
			shouldMatch: true,
		},
		{
			name:        "wrong password",
			hash:        correctHash,
			password:    "wrong_password",
			shouldMatch: false,
		},
		{
			name:        "empty password",
			hash:        correctHash,
			password:    "",
			shouldMatch: false,
		},
		{
			name:        "empty password against empty hash",
			hash:        h.Hash(""),
			password:    "",
			shouldMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Compare(tt.hash, tt.password); got != tt.shouldMatch {
				t.Errorf("Compare() = %v, want %v", got, tt.shouldMatch)
			}
		})
	}
}
