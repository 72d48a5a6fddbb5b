// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousPool is returned when a layer carries more than one pool tag.
	ErrAmbiguousPool = errors.New("ambiguous pool tag")
	// ErrInvalidPool is returned for pool names that cannot be encoded.
	ErrInvalidPool = errors.New("invalid pool name")
)

// AmbiguousError lists the conflicting pool entries found on one layer.
type AmbiguousError struct {
	Keys []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s: multiple worker pools [%s]", ErrAmbiguousPool, strings.Join(e.Keys, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguousPool }
