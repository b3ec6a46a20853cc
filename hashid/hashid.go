// Package hashid renders fingerprints as fixed-alphabet digests. Digests
// are deterministic: the same fingerprint always produces the same
// digest. They are not unique on their own; callers that need unique
// keys resolve collisions themselves.
package hashid

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"
)

// ErrUnknownHasher is returned by ByName for unregistered names.
var ErrUnknownHasher = errors.New("unknown hasher")

// Hasher maps a fingerprint to its digest.
type Hasher func(fingerprint string) string

// SHA1 returns the standard base64 encoding of the SHA-1 sum of s
// (28 characters, padded).
func SHA1(s string) string {
	sum := sha1.Sum([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// XXH3 returns the standard base64 encoding of the 128-bit XXH3 hash of s
// (exactly 24 characters, padded). Bare XXH3 keys are shorter than SHA1
// keys; callers that require keys longer than 24 characters must use SHA1.
func XXH3(s string) string {
	sum := xxh3.HashString128(s).Bytes()
	return base64.StdEncoding.EncodeToString(sum[:])
}

var registry = map[string]Hasher{
	"sha1": SHA1,
	"xxh3": XXH3,
}

// ByName looks up a hasher by its configuration name.
func ByName(name string) (Hasher, error) {
	h, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownHasher, name, Names())
	}
	return h, nil
}

// Names lists the registered hasher names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
