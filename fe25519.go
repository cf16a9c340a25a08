// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package salty implements the prime field arithmetic underlying the
// Curve25519 and Ed25519 cryptosystems: the coordinate field of
// integers modulo p = 2^255 - 19, and the scalar field modulo the
// prime group order l = 2^252 + 27742317777372353535851937790883648493.
//
// The implementation targets 32 bit platforms. All multi-precision
// arithmetic decomposes through a Karatsuba multiplier tower down to
// 32x32 bit products (see internal/bigint), and every operation on
// potentially secret data runs in constant time. Functions that may
// take data-dependent time carry a Vartime suffix or say so in their
// documentation, and must only ever see public values.
package salty

import (
	"errors"
	"io"

	"github.com/ycrypto/salty/internal/bigint"
)

// A FieldElement is an integer modulo p = 2^255 - 19, stored as eight
// little-endian 32 bit words.
//
// Between operations the representation is relaxed: results are only
// guaranteed to be below 2^256 - 38 and congruent to the true residue,
// so bit 255 may be set and the stored value may exceed p by a small
// multiple. Reduce, Bytes and the predicate methods produce or observe
// the canonical value below p.
//
// The zero value is a valid zero element.
type FieldElement struct {
	v bigint.Uint256
}

// Zero sets v = 0, and returns v.
func (v *FieldElement) Zero() *FieldElement {
	v.v.SetZero()
	return v
}

// One sets v = 1, and returns v.
func (v *FieldElement) One() *FieldElement {
	v.v.SetOne()
	return v
}

// Set sets v = a, and returns v.
func (v *FieldElement) Set(a *FieldElement) *FieldElement {
	v.v = a.v
	return v
}

// CMov sets v = u if cond == 1 and leaves it unchanged if cond == 0,
// in constant time. cond must be 0 or 1.
func (v *FieldElement) CMov(u *FieldElement, cond int) *FieldElement {
	bigint.CMov256(&v.v, &u.v, uint32(cond))
	return v
}

// CSwap exchanges v and u if cond == 1 and leaves both unchanged if
// cond == 0, in constant time. cond must be 0 or 1.
func (v *FieldElement) CSwap(u *FieldElement, cond int) {
	bigint.CSwap256(&v.v, &u.v, uint32(cond))
}

// SetBytes sets v to the 256 bit little-endian value of x with bit 255
// cleared, and returns v. The value is not checked or reduced below p.
// If x is not 32 bytes, SetBytes returns nil and an error, and the
// receiver is unchanged.
func (v *FieldElement) SetBytes(x []byte) (*FieldElement, error) {
	if len(x) != 32 {
		return nil, errors.New("salty: invalid field element input length")
	}
	v.v.SetBytes(x)
	v.v[7] &= 0x7fffffff
	return v, nil
}

// Bytes returns the canonical 32 byte little-endian encoding of v.
// The high bit of the last byte is always zero.
func (v *FieldElement) Bytes() []byte {
	// This pattern, called "outlining", allows this function to
	// inline so the allocation can occur on the caller stack rather
	// than escaping to the heap.
	var encoded [32]byte
	return v.bytes(&encoded)
}

func (v *FieldElement) bytes(out *[32]byte) []byte {
	t := *v
	t.Reduce()
	*out = t.v.Bytes()
	return out[:]
}

// SetRandom sets v to a uniformly random 256 bit value read from rand
// and returns v. The value is deliberately left unreduced; repeated
// application is used for projective randomization where the relaxed
// form is acceptable.
func (v *FieldElement) SetRandom(rand io.Reader) (*FieldElement, error) {
	var buf [32]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, err
	}
	v.v.SetBytes(buf[:])
	return v, nil
}

// Add sets v = a + b, and returns v. The output is allowed to alias
// either input.
func (v *FieldElement) Add(a, b *FieldElement) *FieldElement {
	// The most significant word goes first, so the excess above bit
	// 254 can be folded back in as a multiple of 19 on the fly
	// instead of in a separate reduction pass.
	accu := uint64(a.v[7]) + uint64(b.v[7])
	v.v[7] = uint32(accu) & 0x7fffffff
	accu = uint64(uint32(accu>>31)) * 19

	for i := 0; i < 7; i++ {
		accu += uint64(a.v[i])
		accu += uint64(b.v[i])
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(v.v[7])
	v.v[7] = uint32(accu)
	return v
}

// Subtract sets v = a - b, and returns v. The output is allowed to
// alias either input.
func (v *FieldElement) Subtract(a, b *FieldElement) *FieldElement {
	accu := int64(a.v[7]) - int64(b.v[7])

	// Bit 31 of the top word is always set here, compensated by the
	// extra -1 on the reduction value below. This choice keeps the
	// running value non-negative.
	v.v[7] = uint32(accu) | 0x80000000
	accu = 19 * (int64(int32(accu>>31)) - 1)

	for i := 0; i < 7; i++ {
		accu += int64(a.v[i])
		accu -= int64(b.v[i])
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += int64(v.v[7])
	v.v[7] = uint32(accu)
	return v
}

// Negate sets v = -a, and returns v. The output is allowed to alias
// the input.
func (v *FieldElement) Negate(a *FieldElement) *FieldElement {
	accu := -int64(a.v[7])

	v.v[7] = uint32(accu) | 0x80000000
	accu = 19 * (int64(int32(accu>>31)) - 1)

	for i := 0; i < 7; i++ {
		accu -= int64(a.v[i])
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += int64(v.v[7])
	v.v[7] = uint32(accu)
	return v
}

// Mult16 sets v = a * k for a small constant k, and returns v. The
// output is allowed to alias the input. Used for fast randomization of
// field elements.
func (v *FieldElement) Mult16(a *FieldElement, k uint16) *FieldElement {
	// The most significant word is computed first in an approximate
	// way and reduced so that bit 31 ends up clear; carries rippling
	// back into it later cannot overflow then.
	t := a.v[7]
	accu := uint64((t >> 16) * uint32(k))
	accu <<= 16
	accu += uint64((t & 0xffff) * uint32(k))
	v.v[7] = uint32(accu) & 0x7fffffff
	accu = uint64(uint32(accu>>31)) * 19

	for i := 0; i < 7; i++ {
		w := a.v[i]
		accu += uint64((w & 0xffff) * uint32(k))
		accu += uint64((w>>16)*uint32(k)) << 16
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	v.v[7] += uint32(accu)
	return v
}

// Mult121666 sets v = a * 121666, the (A+2)/4 constant of the
// Montgomery ladder, and returns v. The output is allowed to alias the
// input.
func (v *FieldElement) Mult121666(a *FieldElement) *FieldElement {
	// 121666 = 0x1db42 does not fit in 16 bits: the multiplication is
	// split into a 16 bit multiply by 0xdb42 and a shifted add of the
	// operand for the 0x10000 part.
	const truncated = 121666 & 0xffff

	t := a.v[7]
	accu := uint64(t) + uint64((t>>16)*truncated)
	accu <<= 16
	accu += uint64((t & 0xffff) * truncated)
	v.v[7] = uint32(accu) & 0x7fffffff
	accu = uint64(uint32(accu>>31)) * 19

	for i := 0; i < 7; i++ {
		w := a.v[i]
		accu += uint64((w & 0xffff) * truncated)
		accu += uint64((w>>16)*truncated) << 16
		accu += uint64(w) << 16
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(v.v[7])
	v.v[7] = uint32(accu)
	return v
}

// Multiply sets v = a * b, and returns v.
func (v *FieldElement) Multiply(a, b *FieldElement) *FieldElement {
	var t bigint.Uint512
	bigint.Mul256(&t, &a.v, &b.v)
	v.reduceFrom512(&t)
	return v
}

// Square sets v = a * a, and returns v. The result is bit-identical to
// Multiply(a, a).
func (v *FieldElement) Square(a *FieldElement) *FieldElement {
	var t bigint.Uint512
	bigint.Sqr256(&t, &a.v)
	v.reduceFrom512(&t)
	return v
}

// reduceFrom512 folds a 512 bit product into the relaxed 256 bit form,
// using 2^256 = 38 (mod p): each upper word is multiplied by 38 and
// added back eight words down, interleaved with the carry pass.
func (v *FieldElement) reduceFrom512(t *bigint.Uint512) {
	// The uppermost word first, so that word 7 has bit 31 clear
	// before the carries of the sweep below ripple into it. At most
	// 38 can arrive there afterwards, so no overflow is possible.
	accu := uint64(t[7]) + bigint.Mul16x32(38, t[15])
	v.v[7] = uint32(accu) & 0x7fffffff

	accu = uint64(uint32(accu>>31)) * 19
	for i := 0; i < 7; i++ {
		accu += bigint.Mul16x32(38, t[8+i])
		accu += uint64(t[i])
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(v.v[7])
	v.v[7] = uint32(accu)
}

// Reduce brings v into the canonical range [0, p), in constant time.
// All other arithmetic methods only promise the relaxed form below
// 2^256 - 38.
func (v *FieldElement) Reduce() *FieldElement {
	initialGuess := v.v[7] >> 31

	// Dry run: add one extra 19 on top of the estimated reduction and
	// propagate carries without writing back. The guess from bit 255
	// alone can be off by one for values in [2^255-19, 2^255); the
	// extra 19 exposes that case in the resulting sign position.
	accu := uint64(initialGuess*19 + 19)
	for i := 0; i < 7; i++ {
		accu += uint64(v.v[i])
		accu >>= 32
	}
	accu += uint64(v.v[7])

	times := uint32(accu >> 31)

	accu = uint64(times * 19)
	for i := 0; i < 7; i++ {
		accu += uint64(v.v[i])
		v.v[i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(v.v[7])
	v.v[7] = uint32(accu) & 0x7fffffff
	return v
}

// EqualVartime reports whether v == u as field elements. It runs in
// variable time and must only be used on public values.
func (v *FieldElement) EqualVartime(u *FieldElement) int {
	a, b := *v, *u

	if a.v[7] != b.v[7] {
		// The most significant words differ, but the operands may
		// still be congruent if one or both are only reduced to
		// 2^256 - 38.
		a.Reduce()
		b.Reduce()
		if a.v[7] != b.v[7] {
			return 0
		}
	}
	for i := 0; i < 7; i++ {
		if a.v[i] != b.v[i] {
			return 0
		}
	}
	return 1
}

// IsZero observes the canonical form of v. Negative logic: the result
// is 0 for zero and a nonzero mask when the canonical form has a bit
// set above bit 31. Only words 1 to 7 are inspected, so nonzero values
// below 2^32 also give 0.
func (v *FieldElement) IsZero() int32 {
	t := *v
	t.Reduce()

	var mask uint32
	for i := 1; i < 8; i++ {
		mask |= t.v[i]
	}
	return int32(mask)
}

// Parity returns the least significant bit of the canonical form of v.
func (v *FieldElement) Parity() int {
	t := *v
	t.Reduce()
	return int(t.v[0] & 1)
}
