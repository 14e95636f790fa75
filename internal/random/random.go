package random

import (
	"crypto/rand"
	"math/big"

	"github.com/myrjola/casefile/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

var ErrInvalidBound = errors.NewSentinel("bound must be positive")

// Letters returns a random string of n ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := IntN(len(allowedLetters))
		if err != nil {
			return "", err
		}
		letters[i] = allowedLetters[letterIndex]
	}
	return string(letters), nil
}

// IntN returns a uniformly distributed random integer in [0, n).
func IntN(n int) (int, error) {
	if n <= 0 {
		return 0, errors.Wrap(ErrInvalidBound, "draw random integer")
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, errors.Wrap(err, "read crypto random")
	}
	return int(i.Int64()), nil
}
