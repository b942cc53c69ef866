// Package cart implements the wire format of the shopping cart: a
// comma-separated list of product IDs held in a plaintext cookie, where
// repetition of an ID encodes quantity. The same codec is reused for the
// server-side pending-checkout session value.
package cart

import (
	"strconv"
	"strings"
)

const CookieName = "cart"

// SessionKey is where the pending multiset lives between /mycart and /pay.
const SessionKey = "product_ids"

// Multiset is the decoded cart: the full ID sequence plus per-ID counts.
// Distinct IDs keep the order of their first occurrence.
type Multiset struct {
	seq    []uint
	counts map[uint]int
}

func NewMultiset() *Multiset {
	return &Multiset{counts: make(map[uint]int)}
}

// Encode joins product IDs with "," for the cart cookie.
func Encode(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(tokens, ",")
}

// Decode parses a cart cookie value. An absent or empty value yields an
// empty multiset; a malformed token is an error and callers treat the
// cookie as cleared.
func Decode(raw string) (*Multiset, error) {
	m := NewMultiset()
	if raw == "" {
		return m, nil
	}
	for _, tok := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
		if err != nil {
			return nil, err
		}
		m.Add(uint(id))
	}
	return m, nil
}

func (m *Multiset) Add(id uint) {
	m.seq = append(m.seq, id)
	m.counts[id]++
}

// Count returns how many times id appears, i.e. the requested quantity.
func (m *Multiset) Count(id uint) int {
	return m.counts[id]
}

// Len is the total number of entries including repetition.
func (m *Multiset) Len() int {
	return len(m.seq)
}

// IDs returns the full sequence with repetition, in insertion order.
func (m *Multiset) IDs() []uint {
	out := make([]uint, len(m.seq))
	copy(out, m.seq)
	return out
}

// Distinct returns each ID once, ordered by first occurrence.
func (m *Multiset) Distinct() []uint {
	seen := make(map[uint]bool, len(m.counts))
	out := make([]uint, 0, len(m.counts))
	for _, id := range m.seq {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Encode renders the multiset back into cookie form.
func (m *Multiset) Encode() string {
	return Encode(m.seq)
}
