// Package fingerprint computes content digests of files under a selectable
// hash algorithm, streamed in fixed-size blocks so memory stays constant
// regardless of file size.
package fingerprint

import (
	"crypto/md5" //nolint:gosec // Weak algorithms are part of the supported naming set
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"strconv"
	"strings"

	"github.com/meg/extract-files/pkg/filesystem"
	"github.com/meg/extract-files/pkg/fingerprint/md2"
	"golang.org/x/crypto/md4" //nolint:gosec,staticcheck // Weak algorithms are part of the supported naming set
)

// BlockSize is the read granularity for streaming digests. Each block is
// folded into the running hash state before the next is read.
const BlockSize = 4096

// ErrUnsupportedAlgorithm is returned when an algorithm name is not in the
// recognized set.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// Algorithm identifies a supported digest algorithm. The zero value is not
// valid; use ParseAlgorithm or one of the constants.
type Algorithm string

// The recognized algorithm set. Names are matched case-insensitively.
const (
	CRC32  Algorithm = "crc32"
	MD2    Algorithm = "md2"
	MD4    Algorithm = "md4"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
)

// Algorithms returns the recognized algorithms in display order.
func Algorithms() []Algorithm {
	return []Algorithm{CRC32, MD2, MD4, MD5, SHA256, SHA384, SHA512}
}

// ParseAlgorithm converts a user-supplied name into an Algorithm,
// case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(name)) {
	case CRC32:
		return CRC32, nil
	case MD2:
		return MD2, nil
	case MD4:
		return MD4, nil
	case MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	case SHA384:
		return SHA384, nil
	case SHA512:
		return SHA512, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedAlgorithm, name)
	}
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	return string(a)
}

// UnmarshalText implements encoding.TextUnmarshaler so an Algorithm can be
// used directly as a command-line flag value.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// Digest is the rendered string form of a content hash: decimal for CRC32,
// lowercase hexadecimal for everything else. One Digest exists per
// (content, algorithm) pair and never changes once computed.
type Digest string

// String implements fmt.Stringer.
func (d Digest) String() string {
	return string(d)
}

// newHasher maps an already-normalized Algorithm to a fresh hash state.
func newHasher(algorithm Algorithm) (hash.Hash, error) {
	switch algorithm {
	case CRC32:
		return crc32.NewIEEE(), nil
	case MD2:
		return md2.New(), nil
	case MD4:
		return md4.New(), nil
	case MD5:
		return md5.New(), nil //nolint:gosec // See package import note
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedAlgorithm, string(algorithm))
	}
}

// Sum streams r through the named algorithm in BlockSize reads and returns
// the rendered digest.
func Sum(reader io.Reader, algorithm Algorithm) (Digest, error) {
	normalized, err := ParseAlgorithm(string(algorithm))
	if err != nil {
		return "", err
	}

	hasher, err := newHasher(normalized)
	if err != nil {
		return "", err
	}

	buf := make([]byte, BlockSize)

	for {
		n, err := reader.Read(buf) //nolint:varnamelen // n is idiomatic for bytes read
		if n > 0 {
			// hash.Hash writes never fail.
			_, _ = hasher.Write(buf[:n])
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("failed to read content for fingerprinting: %w", err)
		}
	}

	return render(normalized, hasher.Sum(nil)), nil
}

// File opens path on the given filesystem and fingerprints its content.
func File(fsys filesystem.FileSystem, path string, algorithm Algorithm) (Digest, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	digest, err := Sum(file, algorithm)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}

	return digest, nil
}

// render converts a raw hash sum into its string form. CRC32 is rendered as
// the unsigned 32-bit value in decimal to match the historical naming scheme;
// all other algorithms render as lowercase hex.
func render(algorithm Algorithm, sum []byte) Digest {
	if algorithm == CRC32 {
		return Digest(strconv.FormatUint(uint64(binary.BigEndian.Uint32(sum)), 10))
	}

	return Digest(hex.EncodeToString(sum))
}
