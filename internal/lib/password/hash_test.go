package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode password", password: "пароль-оскар-2024"},
		{name: "exactly min length", password: "12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash, "hash must never equal plaintext")
			assert.NoError(t, CompareHash(gotHash, tt.password))
		})
	}
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	require.NoError(t, err)

	anotherHash, err := GetHash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", shouldMatch: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password", shouldMatch: false},
		{name: "different hash same password", hash: anotherHash, password: "correct_password", shouldMatch: false},
		{name: "empty password", hash: correctHash, password: "", shouldMatch: false},
		{name: "garbage hash", hash: "not-a-bcrypt-hash", password: "correct_password", shouldMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)
			if tt.shouldMatch {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.shouldMatch, Matches(tt.hash, tt.password))
		})
	}
}

func TestGetHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	hash1, err := GetHash("the-same-password")
	require.NoError(t, err)

	hash2, err := GetHash("the-same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "salt must make hashes differ")
	assert.True(t, Matches(hash1, "the-same-password"))
	assert.True(t, Matches(hash2, "the-same-password"))
}

func TestGetHash_MaxBytes(t *testing.T) {
	atLimit := make([]byte, MaxBytes)
	for i := range atLimit {
		atLimit[i] = 'a'
	}
	_, err := GetHash(string(atLimit))
	require.NoError(t, err)

	// 42 руны, 84 байта
	_, err = GetHash("парольпарольпарольпарольпарольпарольпароль")
	require.Error(t, err)
}
