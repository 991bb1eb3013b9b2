// Package bloom provides file content deduplication using Bloom filters.
package bloom

import (
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Filter wraps a Bloom filter for deduplicating file contents by digest.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a content digest in the filter.
func (f *Filter) Add(digest string) {
	f.f.AddString(digest)
}

// Test returns true if the digest might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(digest string) bool {
	return f.f.TestString(digest)
}

// Seen reports whether content with the same digest was added before,
// recording it either way.
func (f *Filter) Seen(content []byte) bool {
	digest := Digest(content)
	if f.f.TestString(digest) {
		return true
	}
	f.f.AddString(digest)
	return false
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Digest computes a short content digest using xxhash.
func Digest(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}
