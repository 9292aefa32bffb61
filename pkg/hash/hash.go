package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// Fingerprinter computes lower-case hex digests over raw file bytes.
type Fingerprinter interface {
	Fingerprint(data []byte) (string, error)
}

type fingerprinter struct {
	algorithm Algorithm
}

func NewFingerprinter(algorithm Algorithm) Fingerprinter {
	return &fingerprinter{algorithm: algorithm}
}

func (f *fingerprinter) Fingerprint(data []byte) (string, error) {
	hasher, err := f.newHasher()
	if err != nil {
		return "", err
	}

	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (f *fingerprinter) newHasher() (hash.Hash, error) {
	switch f.algorithm {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", f.algorithm)
	}
}
