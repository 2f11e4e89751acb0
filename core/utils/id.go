package utils

import (
	"crypto/rand"
	"encoding/base64"

	"party-invites/core/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateRSVPToken returns the opaque public token used in invitation links.
func GenerateRSVPToken() (string, error) {
	return gonanoid.Generate(constants.RSVPTokenAlphabet, constants.RSVPTokenLength)
}

// GenerateID returns a short lowercase id used as an object key suffix.
func GenerateID() string {
	id, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 10)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		id, _ := gonanoid.Generate(constants.RSVPTokenAlphabet, length)
		return id
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length]
}
