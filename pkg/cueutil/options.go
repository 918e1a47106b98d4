// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum input size accepted by ParseAndDecode
// and the recommended limit for callers using CheckFileSize directly.
// Settings and task schemas are small; anything near this limit is garbage
// or an attack.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024 // 10 MiB

// options holds the resolved configuration for a parse operation.
type options struct {
	filename    string
	maxFileSize int64
	concrete    bool
}

// defaultOptions returns the baseline parse configuration.
func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
	}
}

// Option customizes a ParseAndDecode call.
type Option func(*options)

// WithFilename sets the filename reported in error messages.
// Defaults to "<input>" when unset.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the maximum accepted input size in bytes.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		o.maxFileSize = n
	}
}

// WithConcrete requires every field to be concrete after unification.
// Use this when decoding a complete document; leave unset when optional
// fields may remain open.
func WithConcrete(concrete bool) Option {
	return func(o *options) {
		o.concrete = concrete
	}
}
