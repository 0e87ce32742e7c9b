package cache

import (
	"github.com/minio/highwayhash"
)

var key = []byte("EasyMix-answer-shuffle-key-0001!")

// Hash creates a 64-bit fingerprint for the input data.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	if err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Seed derives a deterministic random seed from a salt and a sequence of names.
func Seed(salt uint64, names ...string) uint64 {
	h, err := highwayhash.New64(key)
	if err != nil {
		return salt
	}
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(salt >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	for _, name := range names {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
