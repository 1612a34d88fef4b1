package ordernum

import (
	"fmt"
	"math/rand"
	"regexp"
)

// Digits is the width of a human-readable order number.
const Digits = 4

var numberRe = regexp.MustCompile(`^\d{4}$`)

// Generate returns a random zero-padded candidate order number. The candidate
// is only unique once the storage layer's unique index on the number column
// accepts the insert; callers must regenerate and retry on a conflict.
func Generate() string {
	return fmt.Sprintf("%0*d", Digits, rand.Intn(10000))
}

// Valid reports whether s has the shape of an order number.
func Valid(s string) bool {
	return numberRe.MatchString(s)
}
