package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	ReferencePrefix   = "LT-"
	referenceLength   = 7
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NewBookingReference returns "LT-" followed by 7 random alphanumerics.
func NewBookingReference() (string, error) {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return ReferencePrefix + string(buf), nil
}
