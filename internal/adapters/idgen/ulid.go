// Package idgen generates ULID identifiers for journal records.
//
// ULIDs are lexicographically sortable by generation time, which keeps
// trade and exit ids naturally ordered in SQLite indexes.
package idgen

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"tradejournal/internal/ports"
)

// ULIDGenerator implements ports.IDGenerator with monotonic ULIDs: ids
// generated within the same millisecond remain lexicographically
// increasing.
type ULIDGenerator struct {
	mu   sync.Mutex
	mono io.Reader
}

var _ ports.IDGenerator = (*ULIDGenerator)(nil)

// New seeds a PRNG from crypto/rand so ULID entropy is unpredictable.
func New() *ULIDGenerator {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ULIDGenerator{
		mono: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// NewID returns a ULID string.
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.mono)
	if err != nil {
		// Only possible if time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}
