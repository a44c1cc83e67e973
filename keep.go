package farkle

// bestKeepMask scans every non-empty subset of faces and returns the one with
// the highest score, preferring more dice on ties. The returned score is 0 when
// nothing scores.
func bestKeepMask(faces []uint8) (diceMask, int) {
	if len(faces) > maxNumDice {
		panic(errTooManyDice(len(faces)))
	}

	var best diceMask
	bestScore := 0
	for m := diceMask(1); m < diceMask(1)<<len(faces); m++ {
		s := ScoreFaces(m.Select(faces))
		if s <= 0 {
			continue
		}
		if s > bestScore || (s == bestScore && m.Count() > best.Count()) {
			best, bestScore = m, s
		}
	}

	if bestScore == 0 {
		for _, fallback := range []uint8{1, 5} {
			for i, face := range faces {
				if face == fallback {
					var m diceMask
					m.Set(i)
					return m, ScoreFaces([]uint8{face})
				}
			}
		}
	}
	return best, bestScore
}

// BestKeep returns the subset of faces an automated player should keep: the
// highest scoring one, with ties going to the subset with more dice. An empty
// result means the roll has nothing to keep.
func BestKeep(faces []uint8) []uint8 {
	m, _ := bestKeepMask(faces)
	return m.Select(faces)
}

// IsFarkle reports whether a roll of faces is a farkle: the roll as a whole
// cannot be split into scoring tricks, even if some of its dice would score
// on their own.
func IsFarkle(faces []uint8) bool {
	return ScoreFaces(faces) == 0
}
