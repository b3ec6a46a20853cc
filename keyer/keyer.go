// Package keyer assigns each element of a collection a deterministic key
// that is unique within one call.
//
// A key is the digest of the element's shallow fingerprint (see package
// fingerprint). When a digest was already handed out earlier in the same
// call, the suffix "6" is appended until the key is new. Keys are
// therefore order-dependent for colliding elements, and only the first
// occurrence of a shape is guaranteed its bare digest.
package keyer

import (
	"iter"

	"go.uber.org/zap"

	"github.com/DarlingtonDeveloper/listkey/fingerprint"
	"github.com/DarlingtonDeveloper/listkey/hashid"
)

// Suffix is appended to a digest while it collides with an earlier key.
const Suffix = "6"

// DefaultProbeWarn is the number of suffixes after which a probe chain is
// logged.
const DefaultProbeWarn = 3

// Keyer holds the hashing and logging configuration for key passes. It
// carries no per-call state and is safe for concurrent use.
type Keyer struct {
	hash      hashid.Hasher
	log       *zap.Logger
	probeWarn int
	onKey     func(probes int)
}

// Option configures a Keyer.
type Option func(*Keyer)

// WithHasher sets the digest function. The default is hashid.SHA1.
func WithHasher(h hashid.Hasher) Option {
	return func(k *Keyer) {
		if h != nil {
			k.hash = h
		}
	}
}

// WithLogger sets the logger used to report long probe chains.
func WithLogger(l *zap.Logger) Option {
	return func(k *Keyer) {
		if l != nil {
			k.log = l
		}
	}
}

// WithProbeWarn sets the probe chain length that triggers a warning.
// Zero or less disables the warning. It never limits probing.
func WithProbeWarn(n int) Option {
	return func(k *Keyer) { k.probeWarn = n }
}

// WithKeyHook registers fn to be called once per assigned key with the
// number of suffixes that were needed.
func WithKeyHook(fn func(probes int)) Option {
	return func(k *Keyer) { k.onKey = fn }
}

// New creates a Keyer.
func New(opts ...Option) *Keyer {
	k := &Keyer{
		hash:      hashid.SHA1,
		log:       zap.NewNop(),
		probeWarn: DefaultProbeWarn,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

var defaultKeyer = New()

// Default returns the Keyer used by the package-level functions.
func Default() *Keyer {
	return defaultKeyer
}

// Pass is one mapping pass: the set of keys already assigned. A Pass must
// not be shared between goroutines or reused for another collection.
type Pass struct {
	k    *Keyer
	seen map[string]struct{}
}

// NewPass starts a pass with an empty seen-set. size is a capacity hint.
func (k *Keyer) NewPass(size int) *Pass {
	if k == nil {
		k = defaultKeyer
	}
	return &Pass{k: k, seen: make(map[string]struct{}, size)}
}

// Key returns the key for item, distinct from every key this pass has
// returned before.
func (p *Pass) Key(item any) string {
	digest := p.k.hash(fingerprint.Of(item))
	key := digest
	probes := 0
	for {
		if _, dup := p.seen[key]; !dup {
			break
		}
		key += Suffix
		probes++
	}
	if p.k.probeWarn > 0 && probes >= p.k.probeWarn {
		p.k.log.Warn("[keyer] long probe chain",
			zap.String("digest", digest),
			zap.Int("probes", probes),
			zap.Int("assigned", len(p.seen)))
	}
	p.seen[key] = struct{}{}
	if p.k.onKey != nil {
		p.k.onKey(probes)
	}
	return key
}

// Len reports how many keys the pass has assigned.
func (p *Pass) Len() int {
	return len(p.seen)
}

// Keys returns the keys of items in order, or nil for an empty input.
func (k *Keyer) Keys(items []any) []string {
	return Map(k, items, func(_ any, key string) string { return key })
}

// MapWithKey calls transform once per element of collection, in order,
// with a key unique within this call, and returns the results. It
// returns nil without calling transform when collection is empty.
func MapWithKey[T, R any](collection []T, transform func(item T, key string) R) []R {
	return Map(defaultKeyer, collection, transform)
}

// Map is MapWithKey using k. A nil k uses the default Keyer.
func Map[T, R any](k *Keyer, collection []T, transform func(item T, key string) R) []R {
	if len(collection) == 0 {
		return nil
	}
	p := k.NewPass(len(collection))
	out := make([]R, 0, len(collection))
	for _, item := range collection {
		out = append(out, transform(item, p.Key(item)))
	}
	return out
}

// MapWithKeyErr is MapWithKey for transforms that can fail. The first
// error stops the pass and is returned as is, with the results so far.
func MapWithKeyErr[T, R any](collection []T, transform func(item T, key string) (R, error)) ([]R, error) {
	return MapErr(defaultKeyer, collection, transform)
}

// MapErr is MapWithKeyErr using k.
func MapErr[T, R any](k *Keyer, collection []T, transform func(item T, key string) (R, error)) ([]R, error) {
	if len(collection) == 0 {
		return nil, nil
	}
	p := k.NewPass(len(collection))
	out := make([]R, 0, len(collection))
	for _, item := range collection {
		r, err := transform(item, p.Key(item))
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Keys returns the keys of collection in order, or nil when it is empty.
func Keys[T any](collection []T) []string {
	return MapWithKey(collection, func(_ T, key string) string { return key })
}

// Seq maps a sequence with no known length. An empty sequence yields nil.
func Seq[T, R any](k *Keyer, seq iter.Seq[T], transform func(item T, key string) R) []R {
	if seq == nil {
		return nil
	}
	p := k.NewPass(0)
	var out []R
	for item := range seq {
		out = append(out, transform(item, p.Key(item)))
	}
	return out
}
