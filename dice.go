package farkle

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

const maxNumDice = 6
const numSides = 6

// Tally counts how many dice show each face. Index 0 holds the number of 1s,
// index 5 the number of 6s. A Tally is comparable and is used directly as a
// cache key.
type Tally [numSides]uint8

// CountDice tallies a set of faces. It panics if a face is outside 1-6 or if
// more than maxNumDice dice are given.
func CountDice(faces ...uint8) Tally {
	if len(faces) > maxNumDice {
		panic(errTooManyDice(len(faces)))
	}

	var t Tally
	for _, face := range faces {
		if face < 1 || face > numSides {
			panic(fmt.Errorf("cannot tally die = %d", face))
		}
		t[face-1]++
	}
	return t
}

func errTooManyDice(n int) error {
	return fmt.Errorf("cannot hold %d > max %d dice", n, maxNumDice)
}

// Count is the number of dice showing face.
func (t Tally) Count(face uint8) int {
	return int(t[face-1])
}

// NumDice is the total number of dice in the tally.
func (t Tally) NumDice() int {
	n := 0
	for _, c := range t {
		n += int(c)
	}
	return n
}

// Faces expands the tally back into sorted faces.
func (t Tally) Faces() []uint8 {
	result := make([]uint8, 0, t.NumDice())
	for i, c := range t {
		for j := uint8(0); j < c; j++ {
			result = append(result, uint8(i+1))
		}
	}
	return result
}

func (t Tally) String() string {
	return FormatFaces(t.Faces())
}

// FormatFaces renders faces as "1, 5, 3".
func FormatFaces(faces []uint8) string {
	parts := make([]string, len(faces))
	for i, face := range faces {
		parts[i] = fmt.Sprint(face)
	}
	return strings.Join(parts, ", ")
}

// Source produces independent, uniformly distributed die faces in [1, 6].
type Source interface {
	RollOne() uint8
}

// RollN draws n independent faces from src.
func RollN(src Source, n int) []uint8 {
	result := make([]uint8, n)
	for i := range result {
		result[i] = src.RollOne()
	}
	return result
}

// RandomSource is a Source backed by a seeded PCG generator. It is safe for
// concurrent use.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *RandomSource) RollOne() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint8(s.rng.IntN(numSides) + 1)
}

// NewRandomRoll draws a roll of nDice from the global generator.
func NewRandomRoll(nDice int) []uint8 {
	result := make([]uint8, nDice)
	for i := range result {
		result[i] = uint8(rand.IntN(numSides) + 1)
	}
	return result
}

// ParseFaces reads dice faces out of free-form text such as "1 1 5" or "115".
// Characters other than digits and separators are rejected.
func ParseFaces(s string) ([]uint8, error) {
	var result []uint8
	for _, c := range s {
		switch {
		case c >= '1' && c <= '6':
			result = append(result, uint8(c-'0'))
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
		default:
			return nil, errors.Newf("not a valid die: '%c'", c)
		}
	}
	if len(result) > maxNumDice {
		return nil, errors.Newf("too many dice: %d > max %d", len(result), maxNumDice)
	}
	return result, nil
}
