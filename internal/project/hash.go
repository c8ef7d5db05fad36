package project

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest - фиксированный 256 битный хеш, ключ дискового кэша раскрытия
type Digest [32]byte

// Sum хеширует произвольный блоб.
func Sum(data []byte) Digest {
	return Digest(blake2b.Sum256(data))
}

// Combine строит составной хеш: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// New256 fails only for keys longer than 64 bytes.
		panic(err)
	}
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }
