package farkle

import "math/bits"

// diceMask selects a subset of the dice in a roll by position.
type diceMask uint8

func (m *diceMask) Set(i int) {
	*m |= diceMask(1) << i
}

func (m *diceMask) Clear(i int) {
	*m &= ^(diceMask(1) << i)
}

func (m diceMask) IsSet(i int) bool {
	return m&(diceMask(1)<<i) != 0
}

func (m diceMask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// Select returns the faces at the positions set in m, in roll order.
func (m diceMask) Select(faces []uint8) []uint8 {
	result := make([]uint8, 0, m.Count())
	for i, face := range faces {
		if m.IsSet(i) {
			result = append(result, face)
		}
	}
	return result
}
