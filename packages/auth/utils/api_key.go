package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// APIKeyLength is the length in hex characters of a client API key.
const APIKeyLength = 32

// GenerateAPIKey returns a random hex API key for the native client.
func GenerateAPIKey() (string, error) {
	return randomHex(APIKeyLength / 2)
}

func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
