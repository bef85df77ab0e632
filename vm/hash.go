package vm

import "hash/maphash"

// contentHashSeed makes content hashes stable within a single process
// execution and deliberately unstable across executions. Cross-process
// stability is not offered anywhere in the hash protocol.
var contentHashSeed = maphash.MakeSeed()

func hashBytes(b []byte) uint64 {
	return maphash.Bytes(contentHashSeed, b)
}

func hashString(s string) uint64 {
	return maphash.String(contentHashSeed, s)
}
