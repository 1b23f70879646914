package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	minPasswordLen = 8
	symbols        = "!@#$%&*"
	upperLetters   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters   = "abcdefghijklmnopqrstuvwxyz"
	digits         = "0123456789"
)

// GenerateAdminPassword returns an n-character password (at least 8) with one
// uppercase, one lowercase, one digit and one symbol. Uses crypto/rand.
func GenerateAdminPassword(n int) (string, error) {
	if n < minPasswordLen {
		n = minPasswordLen
	}
	pick := func(s string) (byte, error) {
		i, err := rand.Int(rand.Reader, big.NewInt(int64(len(s))))
		if err != nil {
			return 0, err
		}
		return s[i.Int64()], nil
	}

	result := make([]byte, n)
	all := upperLetters + lowerLetters + digits + symbols
	for i := range result {
		set := all
		switch i {
		case 0:
			set = upperLetters
		case 1:
			set = lowerLetters
		case 2:
			set = digits
		case 3:
			set = symbols
		}
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		result[i] = c
	}

	// Fisher-Yates with crypto/rand
	for i := n - 1; i >= 1; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}
	return string(result), nil
}
