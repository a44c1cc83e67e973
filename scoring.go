package farkle

import "fmt"

type TrickType int

const (
	Single1 TrickType = iota
	Single5
	Three1s
	Three2s
	Three3s
	Three4s
	Three5s
	Three6s
	FourOfAKind
	FiveOfAKind
	SixOfAKind
	Straight
	ThreePairs
	FourOfAKindPlusPair
	TwoTriplets
)

var trickScores = map[TrickType]int{
	Single1:             100,
	Single5:             50,
	Three1s:             1000,
	Three2s:             200,
	Three3s:             300,
	Three4s:             400,
	Three5s:             500,
	Three6s:             600,
	FourOfAKind:         1000,
	FiveOfAKind:         2000,
	SixOfAKind:          3000,
	Straight:            1500,
	ThreePairs:          1500,
	FourOfAKindPlusPair: 1500,
	TwoTriplets:         2500,
}

var trickNames = map[TrickType]string{
	Single1:             "single 1",
	Single5:             "single 5",
	Three1s:             "three 1s",
	Three2s:             "three 2s",
	Three3s:             "three 3s",
	Three4s:             "three 4s",
	Three5s:             "three 5s",
	Three6s:             "three 6s",
	FourOfAKind:         "four of a kind",
	FiveOfAKind:         "five of a kind",
	SixOfAKind:          "six of a kind",
	Straight:            "straight",
	ThreePairs:          "three pairs",
	FourOfAKindPlusPair: "four of a kind plus a pair",
	TwoTriplets:         "two triplets",
}

func (tt TrickType) String() string {
	if name, ok := trickNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TrickType(%d)", int(tt))
}

// Trick is one scoring group together with the dice it consumes.
type Trick struct {
	Type TrickType
	Dice Tally
}

func (t Trick) Score() int {
	return trickScores[t.Type]
}

func (t Trick) String() string {
	return fmt.Sprintf("%s [%s] = %d", t.Type, t.Dice, t.Score())
}

// unscorable marks a tally whose dice cannot all be consumed by tricks.
const unscorable = -1

type scoredTally struct {
	score int
	// First trick of the best partition; the rest is found by looking up
	// the remainder.
	best Trick
}

// scorer is a memoised search for the highest scoring partition of a tally
// into tricks.
type scorer struct {
	memo map[Tally]scoredTally
}

func newScorer() *scorer {
	return &scorer{memo: make(map[Tally]scoredTally)}
}

func (s *scorer) search(t Tally) int {
	if entry, ok := s.memo[t]; ok {
		return entry.score
	}

	numDice := t.NumDice()
	if numDice == 0 {
		return 0
	}

	result := scoredTally{score: unscorable}
	try := func(trick Trick) {
		rest := t
		for i, c := range trick.Dice {
			rest[i] -= c
		}
		sub := s.search(rest)
		if sub == unscorable {
			return
		}
		if total := trick.Score() + sub; total > result.score {
			result = scoredTally{score: total, best: trick}
		}
	}

	// Six-dice combinations only apply when exactly six dice remain in
	// this subproblem.
	if numDice == maxNumDice {
		var pairs, triples int
		var hasFour, hasPair, isStraight = false, false, true
		for _, c := range t {
			switch c {
			case 1:
			case 2:
				pairs++
				hasPair = true
			case 3:
				triples++
			case 4:
				hasFour = true
			}
			if c != 1 {
				isStraight = false
			}
		}
		if isStraight {
			try(Trick{Type: Straight, Dice: t})
		}
		if pairs == 3 {
			try(Trick{Type: ThreePairs, Dice: t})
		}
		if triples == 2 {
			try(Trick{Type: TwoTriplets, Dice: t})
		}
		if hasFour && hasPair {
			try(Trick{Type: FourOfAKindPlusPair, Dice: t})
		}
	}

	for i, c := range t {
		for _, n := range []struct {
			count uint8
			typ   TrickType
		}{{6, SixOfAKind}, {5, FiveOfAKind}, {4, FourOfAKind}, {3, Three1s + TrickType(i)}} {
			if c >= n.count {
				var dice Tally
				dice[i] = n.count
				try(Trick{Type: n.typ, Dice: dice})
			}
		}
	}

	if t[0] >= 1 {
		try(Trick{Type: Single1, Dice: CountDice(1)})
	}
	if t[4] >= 1 {
		try(Trick{Type: Single5, Dice: CountDice(5)})
	}

	s.memo[t] = result
	return result.score
}

// Enumerate every tally of 0 to maxNumDice dice.
func makeTallies() []Tally {
	var result []Tally
	var rec func(t Tally, face, remaining int)
	rec = func(t Tally, face, remaining int) {
		if face == numSides {
			result = append(result, t)
			return
		}
		for c := 0; c <= remaining; c++ {
			t[face] = uint8(c)
			rec(t, face+1, remaining-c)
		}
	}
	rec(Tally{}, 0, maxNumDice)
	return result
}

// For each tally of up to maxNumDice dice, its best partition. Immutable after
// initialization, so lookups are safe from any goroutine.
var scoreCache = func() map[Tally]scoredTally {
	s := newScorer()
	for _, t := range makeTallies() {
		s.search(t)
	}
	s.memo[Tally{}] = scoredTally{}
	return s.memo
}()

func lookup(t Tally) scoredTally {
	if n := t.NumDice(); n > maxNumDice {
		panic(fmt.Errorf("cannot score %d > max %d dice", n, maxNumDice))
	}
	return scoreCache[t]
}

// Score returns the highest total obtainable by partitioning every die in t
// into tricks, or 0 if no such partition exists.
func Score(t Tally) int {
	return max(lookup(t).score, 0)
}

// ScoreFaces is Score applied to a set of faces.
func ScoreFaces(faces []uint8) int {
	if len(faces) == 0 {
		return 0
	}
	return Score(CountDice(faces...))
}

// Scorable reports whether every die in t can be consumed by tricks. An empty
// tally is scorable.
func Scorable(t Tally) bool {
	return lookup(t).score != unscorable
}

// BestPartition returns the tricks that realize Score(t), and false if t
// cannot be fully partitioned.
func BestPartition(t Tally) ([]Trick, bool) {
	if !Scorable(t) {
		return nil, false
	}

	var result []Trick
	for t.NumDice() > 0 {
		trick := lookup(t).best
		result = append(result, trick)
		for i, c := range trick.Dice {
			t[i] -= c
		}
	}
	return result, true
}
