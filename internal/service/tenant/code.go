package tenant

import (
	"crypto/rand"
	"math/big"
)

// CodeAlphabet leaves out characters that read alike (0/O, 1/I).
const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
)

// GenerateCode returns a random company code.
func GenerateCode() (string, error) {
	size := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
