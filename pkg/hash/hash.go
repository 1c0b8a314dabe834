package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// Fingerprinter computes content fingerprints over raw upload bytes.
// Identical byte sequences always produce identical fingerprints.
type Fingerprinter struct {
	algorithm Algorithm
}

func NewFingerprinter(algorithm Algorithm) *Fingerprinter {
	return &Fingerprinter{
		algorithm: algorithm,
	}
}

func (f *Fingerprinter) Sum(data []byte) (string, error) {
	hasher, err := f.getHasher()
	if err != nil {
		return "", err
	}

	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (f *Fingerprinter) SumReader(reader io.Reader) (string, error) {
	hasher, err := f.getHasher()
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (f *Fingerprinter) getHasher() (hash.Hash, error) {
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
