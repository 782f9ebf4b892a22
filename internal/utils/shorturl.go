package utils

import (
	"crypto/rand"
	"math/big"
)

const shortURLAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ShortURLLength is the length of generated public card slugs.
const ShortURLLength = 8

// GenerateShortURL returns a random lowercase alphanumeric slug for a
// published card. Uniqueness is enforced by the database index; callers
// retry on conflict.
func GenerateShortURL() (string, error) {
	max := big.NewInt(int64(len(shortURLAlphabet)))
	slug := make([]byte, ShortURLLength)
	for i := range slug {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		slug[i] = shortURLAlphabet[n.Int64()]
	}
	return string(slug), nil
}
