package ecs

import (
	"math/bits"
	"strings"
)

// Bitmask is a fixed-width bitset with one bit per component type. Entity
// masks and query masks built by the same ComponentStorage always have the
// same length.
type Bitmask []byte

// NewBitmask returns a zeroed mask able to hold the given number of bits.
func NewBitmask(size int) Bitmask {
	return make(Bitmask, maskBytes(size))
}

func maskBytes(size int) int {
	return (size + 7) / 8
}

// Set enables the given bit. Panics if the bit is outside the mask.
func (m Bitmask) Set(bit int) {
	m[bit>>3] |= 1 << uint(bit&7)
}

// Unset disables the given bit. Bits outside the mask are ignored.
func (m Bitmask) Unset(bit int) {
	i := bit >> 3
	if bit < 0 || i >= len(m) {
		return
	}
	m[i] &^= 1 << uint(bit&7)
}

// IsSet reports whether the given bit is enabled.
func (m Bitmask) IsSet(bit int) bool {
	i := bit >> 3
	if bit < 0 || i >= len(m) {
		return false
	}
	return m[i]&(1<<uint(bit&7)) != 0
}

// HasAllBitsOf reports whether every bit of sub is also set in m.
// Masks of different lengths never match.
func (m Bitmask) HasAllBitsOf(sub Bitmask) bool {
	if len(m) != len(sub) {
		return false
	}
	for i := range sub {
		if m[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

// HasNoneOf reports whether m and other share no set bit.
// Masks of different lengths never match.
func (m Bitmask) HasNoneOf(other Bitmask) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range other {
		if m[i]&other[i] != 0 {
			return false
		}
	}
	return true
}

// Combine returns a new mask holding the union of a and b. The result is as
// long as the longer of the two inputs.
func Combine(a, b Bitmask) Bitmask {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := a.Clone()
	for i := range b {
		out[i] |= b[i]
	}
	return out
}

// Clone returns a copy of m.
func (m Bitmask) Clone() Bitmask {
	out := make(Bitmask, len(m))
	copy(out, m)
	return out
}

// Clear disables every bit.
func (m Bitmask) Clear() {
	clear(m)
}

// IsZero reports whether no bit is set.
func (m Bitmask) IsZero() bool {
	for _, b := range m {
		if b != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (m Bitmask) Count() int {
	n := 0
	for _, b := range m {
		n += bits.OnesCount8(b)
	}
	return n
}

// ForEach calls fn with the index of every set bit in ascending order.
func (m Bitmask) ForEach(fn func(bit int)) {
	for i, b := range m {
		for b != 0 {
			pos := bits.TrailingZeros8(b)
			fn(i*8 + pos)
			b &^= 1 << uint(pos)
		}
	}
}

// String renders the mask as bits, lowest index first.
func (m Bitmask) String() string {
	var sb strings.Builder
	sb.Grow(len(m) * 8)
	for i := 0; i < len(m)*8; i++ {
		if m.IsSet(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
