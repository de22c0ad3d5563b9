// Package digest computes the 128-bit hex digest huge uses to address
// blobs. The streaming implementation mirrors the buffered read loop the
// reference implementation uses when hashing a workspace, wrapped the way
// go-git's plumbing/hash package wraps its own hash selection.
package digest

import (
	"crypto/md5" //nolint:gosec // 128-bit content address, not a security boundary
	"encoding/hex"
	"hash"
	"io"
	"os"
)

// Size is the length in bytes of a digest.
const Size = md5.Size

// HexSize is the length of a digest's hex-encoded form.
const HexSize = Size * 2

// bufferSize is the size of the streaming read buffer: 1 MiB, per spec.
const bufferSize = 1 << 20

// New returns a fresh streaming hash.Hash implementing the digest algorithm.
func New() hash.Hash {
	return md5.New() //nolint:gosec
}

// Hex returns the lowercase hex encoding of a finished hash's sum.
func Hex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Reader streams digest over r, reporting bytes consumed to onBytes after
// every read that returns data (never with 0). It returns the hex digest.
func Reader(r io.Reader, onBytes func(n int64)) (string, error) {
	h := New()
	buf := make([]byte, bufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			if onBytes != nil {
				onBytes(int64(n))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return Hex(h), nil
}

// File computes the digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Reader(f, nil)
}

// Valid reports whether s looks like a well-formed hex digest of the
// expected width. Digest names listed by a peer are not checked with it.
func Valid(s string) bool {
	if len(s) != HexSize {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
