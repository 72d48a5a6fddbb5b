// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package pool defines worker pool identifiers and how they are encoded in a
// layer's resource requirements.
//
// # Why Pool Package Exists
//
// Host schedulers only understand a generic bag of resource requirements. A
// pool assignment is smuggled through that bag as an entry whose key is
// Prefix followed by the pool name. This package owns that convention so the
// rest of the code can work with a typed Pool value:
//
//	resources := map[string]float64{"pool-gpu": 1, "MEMORY": 4e9}
//	p, err := pool.FromResources(resources) // p == "gpu"
//
// A layer carries at most one pool. Two or more distinct pool entries on the
// same layer are rejected with ErrAmbiguousPool, never resolved by picking one.
package pool

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Prefix marks a resource requirement entry as a pool tag. Matching is
// case-insensitive.
const Prefix = "pool-"

// Placeholder is the value written for a pool entry. Only the presence of the
// key carries meaning.
const Placeholder = 1.0

// Pool names a restricted subset of workers eligible to run a layer.
// The zero value (None) means "no pool constraint".
type Pool string

// None is the absence of a pool constraint.
const None Pool = ""

// New validates name and returns it as a Pool.
func New(name string) (Pool, error) {
	p := Pool(name)
	if err := p.Validate(); err != nil {
		return None, err
	}
	return p, nil
}

// MustNew is like New but panics on an invalid name. Intended for tests and
// package-level values.
func MustNew(name string) Pool {
	p, err := New(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether the pool name is usable as a resource key suffix.
func (p Pool) Validate() error {
	s := string(p)
	if s == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPool)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidPool, s)
	}
	return nil
}

// IsNone reports whether p is the absence of a pool.
func (p Pool) IsNone() bool {
	return p == None
}

// String returns the pool name.
func (p Pool) String() string {
	return string(p)
}

// ResourceKey returns the resource requirement key that encodes p.
func (p Pool) ResourceKey() string {
	return Prefix + string(p)
}

// IsResourceKey reports whether key encodes a pool tag.
func IsResourceKey(key string) bool {
	return len(key) >= len(Prefix) && strings.EqualFold(key[:len(Prefix)], Prefix)
}

// FromResources extracts the pool encoded in a resource requirement set.
// It returns None when no pool entry is present. More than one pool entry is
// ambiguous, even when the entries spell the same name in different case.
func FromResources(resources map[string]float64) (Pool, error) {
	var (
		found Pool
		keys  []string
	)
	for key := range resources {
		if !IsResourceKey(key) {
			continue
		}
		p := Pool(key[len(Prefix):])
		if err := p.Validate(); err != nil {
			return None, fmt.Errorf("resource %q: %w", key, err)
		}
		keys = append(keys, key)
		found = p
	}
	if len(keys) > 1 {
		sort.Strings(keys)
		return None, &AmbiguousError{Keys: keys}
	}
	return found, nil
}

// WithResource returns a copy of resources with p's entry added. Existing
// entries, pool or not, are kept.
func WithResource(resources map[string]float64, p Pool) map[string]float64 {
	out := make(map[string]float64, len(resources)+1)
	for k, v := range resources {
		out[k] = v
	}
	out[p.ResourceKey()] = Placeholder
	return out
}
