// Package naming chooses collision-free destination filenames for files
// placed into a flat target directory. It probes progressively longer
// content-hash prefixes when hashing is enabled, and falls back to numeric
// stem suffixes when hashing is disabled or the full digest is exhausted.
package naming

import (
	"fmt"
	"strings"
)

// ExistenceOracle answers whether a filename is already taken in the target
// directory. Answers are point-in-time: nothing is reserved between the
// check and the eventual placement, so single-writer usage is assumed.
type ExistenceOracle interface {
	Exists(name string) bool
}

// Resolver picks destination filenames that do not collide with entries
// currently present in the target directory.
type Resolver struct {
	oracle ExistenceOracle
}

// NewResolver creates a Resolver probing the given oracle.
func NewResolver(oracle ExistenceOracle) *Resolver {
	return &Resolver{oracle: oracle}
}

// Resolve returns the destination filename for name, relative to the target
// directory. A non-zero prefixLength with a non-empty digest enables hash
// prefixing; the sign of prefixLength is ignored. The returned name is free
// at decision time, never reserved.
func (r *Resolver) Resolve(name, digest string, prefixLength int) string {
	if prefixLength < 0 {
		prefixLength = -prefixLength
	}

	if prefixLength == 0 || digest == "" {
		return r.suffixed(name)
	}

	return r.prefixed(name, digest, prefixLength)
}

// prefixed probes candidates of the form <digest[:length]>_<name>, growing
// the prefix one character per collision. Length is bounded by the digest,
// so the loop either accepts or hands the full-digest candidate to suffix
// probing.
func (r *Resolver) prefixed(name, digest string, length int) string {
	for {
		candidate := digest[:min(length, len(digest))] + "_" + name
		if !r.oracle.Exists(candidate) {
			return candidate
		}

		if length >= len(digest) {
			// Two files agreeing on the full digest cannot be told apart by
			// hash; only the counter scheme can still make progress.
			return r.suffixed(candidate)
		}

		length++
	}
}

// suffixed returns name unchanged if it is free, otherwise appends _1, _2,
// and so on to the stem until a free name is found. The counter grows
// monotonically against a finite directory, so probing terminates.
func (r *Resolver) suffixed(name string) string {
	if !r.oracle.Exists(name) {
		return name
	}

	stem, ext := splitName(name)

	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if !r.oracle.Exists(candidate) {
			return candidate
		}
	}
}

// splitName splits a filename into stem and extension at the last dot.
// Leading dots never start an extension, so dotfiles like .bashrc keep
// their full name as the stem.
func splitName(name string) (stem, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name, ""
	}

	if strings.Trim(name[:dot], ".") == "" {
		return name, ""
	}

	return name[:dot], name[dot:]
}
