package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
)

// makeChunkKey generates a key for a chunk by corpus position.
// Format: prefix:seq with the sequence in BigEndian order so
// lexicographic iteration yields insertion order.
func makeChunkKey(seq uint64) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for the sequence
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// chunkKeyPrefix returns the prefix shared by all chunk record keys.
func chunkKeyPrefix() []byte {
	return []byte(chunkRecordPrefix + ":")
}
