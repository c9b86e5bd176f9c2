package testutil

import (
	"strconv"
	"strings"
	"sync"
)

// TokenWidth is the length of tokens produced by SequenceTokens.
const TokenWidth = 5

// SequenceTokens yields base36 uniqueness tokens "00001", "00002", ...
//
// It mirrors the shape of the random tokens used in production so entry ids
// in golden files look like real ones.
//
// Thread-safety: SequenceTokens is safe for concurrent use via internal mutex.
type SequenceTokens struct {
	mu sync.Mutex
	n  int64
}

// NewSequenceTokens creates a sequence whose first token is "00001".
func NewSequenceTokens() *SequenceTokens {
	return &SequenceTokens{}
}

// Token returns the next token in the sequence.
func (s *SequenceTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return pad(strconv.FormatInt(s.n, 36))
}

// Reset restarts the sequence at "00001".
func (s *SequenceTokens) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}

// FixedTokens returns the same token every time. Used to exercise id collision
// handling.
type FixedTokens string

// Token returns the fixed token.
func (f FixedTokens) Token() string {
	return string(f)
}

func pad(s string) string {
	if len(s) >= TokenWidth {
		return s
	}
	return strings.Repeat("0", TokenWidth-len(s)) + s
}
