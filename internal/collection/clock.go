package collection

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the wall time stamped on new entries.
// Implemented by SystemClock (production) and testutil.DeterministicClock (tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// TokenSource supplies the random component of new entry ids.
// Implemented by RandomTokens (production) and testutil.SequenceTokens (tests).
type TokenSource interface {
	Token() string
}

// tokenLen is the number of base36 characters in a generated token.
const tokenLen = 5

// RandomTokens derives short base36 tokens from random UUIDs.
//
// Thread-safety: RandomTokens is stateless and safe for concurrent use.
type RandomTokens struct{}

// Token returns a 5-character lowercase base36 token.
//
// Panics if UUID generation fails (should never happen in practice).
func (RandomTokens) Token() string {
	id := uuid.Must(uuid.NewRandom())
	n := binary.BigEndian.Uint64(id[8:])
	s := strconv.FormatUint(n, 36)
	if len(s) < tokenLen {
		s = strings.Repeat("0", tokenLen-len(s)) + s
	}
	return s[len(s)-tokenLen:]
}
