// Copyright (c) 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package salty

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"github.com/ycrypto/salty/internal/bigint"
)

// A Scalar is an integer modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// which is the prime order of the edwards25519 group. Scalars are
// always kept in the canonical range [0, l).
//
// The zero value is a valid zero element.
type Scalar struct {
	v bigint.Uint256
}

// scOrder is l as a 288 bit little-endian constant, padded so the
// Barrett reduction can multiply it at the same width as mu.
var scOrder = bigint.Uint288{
	0x5cf5d3ed, 0x5812631a, 0xa2f79cd6, 0x14def9de,
	0x00000000, 0x00000000, 0x00000000, 0x10000000,
	0x00000000,
}

// scMu is the Barrett constant floor(2^512 / l).
var scMu = bigint.Uint288{
	0x0a2c131b, 0xed9ce5a3, 0x086329a7, 0x2106215d,
	0xffffffeb, 0xffffffff, 0xffffffff, 0xffffffff,
	0x0000000f,
}

// scMinusOneBytes is the canonical encoding of l - 1, the largest
// reduced scalar.
var scMinusOneBytes = [32]byte{
	0xec, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

// SetBytes sets s to the 256 bit little-endian value of x reduced
// modulo l, and returns s. The input does not have to be canonical. If
// x is not 32 bytes, SetBytes returns nil and an error, and the
// receiver is unchanged.
func (s *Scalar) SetBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("salty: invalid scalar input length")
	}
	var t bigint.Uint512
	for i := 0; i < 8; i++ {
		t[i] = binary.LittleEndian.Uint32(x[4*i:])
	}
	scBarrettReduce(&t)
	copy(s.v[:], t[0:8])
	return s, nil
}

// SetUniformBytes sets s = x mod l, where x is a 64-byte little-endian
// integer. If x is not of the right length, SetUniformBytes returns
// nil and an error, and the receiver is unchanged.
//
// SetUniformBytes can be used to set s to an uniformly distributed
// value given 64 uniformly distributed random bytes.
func (s *Scalar) SetUniformBytes(x []byte) (*Scalar, error) {
	if len(x) != 64 {
		return nil, errors.New("salty: invalid SetUniformBytes input length")
	}
	var t bigint.Uint512
	t.SetBytes(x)
	scBarrettReduce(&t)
	copy(s.v[:], t[0:8])
	return s, nil
}

// SetCanonicalBytes sets s = x, where x is a 32-byte little-endian
// encoding of s, and returns s. If x is not a canonical encoding of s,
// SetCanonicalBytes returns nil and an error, and the receiver is
// unchanged.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("salty: invalid scalar length")
	}
	if !isReduced(x) {
		return nil, errors.New("salty: invalid scalar encoding")
	}
	s.v.SetBytes(x)
	return s, nil
}

// isReduced returns whether the given scalar in 32-byte little endian
// encoded form is reduced modulo l.
func isReduced(s []byte) bool {
	if len(s) != 32 {
		return false
	}
	for i := len(s) - 1; i >= 0; i-- {
		switch {
		case s[i] > scMinusOneBytes[i]:
			return false
		case s[i] < scMinusOneBytes[i]:
			return true
		}
	}
	return true
}

// SetBytesWithClamping applies the buffer pruning described in RFC
// 8032, Section 5.1.5 (also known as clamping) and sets s to the
// result. The input must be 32 bytes, and it is not modified. If x is
// not of the right length, SetBytesWithClamping returns nil and an
// error, and the receiver is unchanged.
//
// Note that since Scalar values are always reduced modulo the prime
// order of the curve, the resulting value will not preserve any of the
// cofactor-clearing properties that clamping is meant to provide. It
// will however work as expected as long as it is applied to points on
// the prime order subgroup, like in Ed25519.
func (s *Scalar) SetBytesWithClamping(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("salty: invalid SetBytesWithClamping input length")
	}
	var wideBytes [64]byte
	copy(wideBytes[:], x[:])
	wideBytes[0] &= 248
	wideBytes[31] &= 63
	wideBytes[31] |= 64
	return s.SetUniformBytes(wideBytes[:])
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	// This pattern, called "outlining", allows this function to
	// inline so the allocation can occur on the caller stack rather
	// than escaping to the heap.
	var encoded [32]byte
	return s.bytes(&encoded)
}

func (s *Scalar) bytes(out *[32]byte) []byte {
	*out = s.v.Bytes()
	return out[:]
}

// Equal returns 1 if s and t are equal, and 0 otherwise.
func (s *Scalar) Equal(t *Scalar) int {
	st := t.Bytes()
	ss := s.Bytes()
	return subtle.ConstantTimeCompare(ss, st)
}

// reduceAddSub conditionally subtracts l from v, bringing a value
// below 2l into [0, l). The subtraction is computed unconditionally
// into scratch and moved back without branching on the borrow.
func reduceAddSub(v *bigint.Uint256, scratch *bigint.Uint256) {
	*scratch = *v
	borrow := bigint.Sub(scratch[:], scOrder[:8])
	bigint.CMov256(v, scratch, uint32(^borrow)&1)
}

// scBarrettReduce reduces the 512 bit value t modulo l, leaving the
// result in the low 256 bits of t. The upper words of t are clobbered.
//
// mu = floor(2^512 / l) is precomputed at 288 bits so that all
// intermediate products stay word-aligned. The quotient estimate
// floor(mu * floor(t / 2^224) / 2^288) is short of the true quotient
// by at most two, hence the two conditional subtractions at the end.
func scBarrettReduce(t *bigint.Uint512) {
	var q1 bigint.Uint288
	copy(q1[:], t[7:16])

	var q2 bigint.Uint576
	bigint.Mul288(&q2, &scMu, &q1)

	// The approximate quotient is the high 288 bits of mu * q1.
	var q3 bigint.Uint288
	copy(q3[:], q2[9:18])

	var sub bigint.Uint576
	bigint.Mul288(&sub, &q3, &scOrder)

	bigint.Sub(t[0:16], sub[0:16])

	// The estimate may be short by up to two subtractions of l.
	lo := (*bigint.Uint256)((*[8]uint32)(t[0:8]))
	scratch := (*bigint.Uint256)((*[8]uint32)(t[8:16]))
	reduceAddSub(lo, scratch)
	reduceAddSub(lo, scratch)
}

// Add sets s = x + y mod l, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.v = x.v
	bigint.Add(s.v[:], y.v[:])
	var scratch bigint.Uint256
	reduceAddSub(&s.v, &scratch)
	return s
}

// Subtract sets s = x - y mod l, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	s.v = x.v
	borrow := bigint.Sub(s.v[:], y.v[:])

	// On underflow add l back in; the selection must not depend on
	// the borrow through a branch.
	var t bigint.Uint256
	copy(t[:], scOrder[:8])
	bigint.Add(t[:], s.v[:])
	bigint.CMov256(&s.v, &t, uint32(borrow)&1)
	return s
}

// Multiply sets s = x * y mod l, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	var t bigint.Uint512
	bigint.Mul256(&t, &x.v, &y.v)
	scBarrettReduce(&t)
	copy(s.v[:], t[0:8])
	return s
}

// Square sets s = x * x mod l, and returns s.
func (s *Scalar) Square(x *Scalar) *Scalar {
	var t bigint.Uint512
	bigint.Sqr256(&t, &x.v)
	scBarrettReduce(&t)
	copy(s.v[:], t[0:8])
	return s
}

// InvertVartime sets s = 1/x mod l using the binary extended GCD
// (Handbook of Applied Cryptography, algorithm 14.61), and returns s.
// x must not be zero.
//
// As the name says, the running time depends on the value of x. Only
// public scalars, such as signature verification exponents, may pass
// through here; secret values need a constant-time ladder instead.
func (s *Scalar) InvertVartime(x *Scalar) *Scalar {
	var order bigint.Uint256
	copy(order[:], scOrder[:8])

	var r bigint.Uint256
	binaryExtendedGCD(&r, &order, &x.v)

	// The Bezout coefficient comes out in two's complement; add the
	// order until it is non-negative.
	for r[7]&0x80000000 != 0 {
		bigint.Add(r[:], order[:])
	}
	s.v = r
	return s
}

// binaryExtendedGCD computes r such that r * y = gcd(x, y) * g for the
// largest power of two g dividing both inputs; for y invertible modulo
// an odd x this makes r a (possibly negative) modular inverse of y.
// The invariants B*y = u*g and D*y = v*g (mod x) hold throughout the
// loop, and u = 0 terminates it.
func binaryExtendedGCD(r, xIn, yIn *bigint.Uint256) {
	var x, y, u, v, b, d, g, zero bigint.Uint256
	x = *xIn
	y = *yIn
	g.SetOne()

	for x[0]&1 == 0 && y[0]&1 == 0 {
		bigint.ShiftRightOne(&x)
		bigint.ShiftRightOne(&y)
		bigint.ShiftLeftOne(&g)
	}

	u = x
	v = y
	b.SetZero()
	d.SetOne()

	for bigint.IsEqual(&u, &zero) != 0 {
		for u[0]&1 == 0 {
			bigint.ShiftRightOne(&u)
			if b[0]&1 != 0 {
				bigint.Sub(b[:], x[:])
			}
			bigint.ShiftRightOne(&b)
		}

		for v[0]&1 == 0 {
			bigint.ShiftRightOne(&v)
			if d[0]&1 != 0 {
				bigint.Sub(d[:], x[:])
			}
			bigint.ShiftRightOne(&d)
		}

		if bigint.LessThan(&u, &v) == 0 {
			bigint.Sub(u[:], v[:])
			bigint.Sub(b[:], d[:])
		} else {
			bigint.Sub(v[:], u[:])
			bigint.Sub(d[:], b[:])
		}
	}
	*r = d
}

// SignedRadix16 splits s into 64 signed 4 bit digits in [-8, 8], such
// that the digits d satisfy sum(d[i] * 16^i) == s. Fixed-window scalar
// multipliers consume four bits per step from this form.
func (s *Scalar) SignedRadix16() [64]int8 {
	b := s.Bytes()
	if b[31] > 127 {
		panic("scalar has high bit set illegally")
	}

	var digits [64]int8

	// Compute unsigned radix-16 digits:
	for i := 0; i < 32; i++ {
		digits[2*i] = int8(b[i] & 15)
		digits[2*i+1] = int8((b[i] >> 4) & 15)
	}

	// Recenter coefficients:
	for i := 0; i < 63; i++ {
		carry := (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}

// NonAdjacentForm computes a width-w non-adjacent form for this
// scalar.
//
// w must be between 2 and 8, or NonAdjacentForm will panic.
//
// NonAdjacentForm runs in variable time and must only be used on
// public scalars.
func (s *Scalar) NonAdjacentForm(w uint) [256]int8 {
	// This implementation is adapted from the one
	// in curve25519-dalek and is documented there:
	// https://github.com/dalek-cryptography/curve25519-dalek/blob/f630041af28e9a405255f98a8a93adca18e4315b/src/scalar.rs#L800-L871
	b := s.Bytes()
	if b[31] > 127 {
		panic("scalar has high bit set illegally")
	}
	if w < 2 {
		panic("w must be at least 2 by the definition of NAF")
	} else if w > 8 {
		panic("NAF digits must fit in int8")
	}

	var naf [256]int8
	var digits [5]uint64

	for i := 0; i < 4; i++ {
		digits[i] = binary.LittleEndian.Uint64(b[i*8:])
	}

	width := uint64(1 << w)
	windowMask := uint64(width - 1)

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		indexU64 := pos / 64
		indexBit := pos % 64
		var bitBuf uint64
		if indexBit < 64-w {
			// This window's bits are contained in a single u64
			bitBuf = digits[indexU64] >> indexBit
		} else {
			// Combine the current 64 bits with bits from the next 64
			bitBuf = (digits[indexU64] >> indexBit) | (digits[1+indexU64] << (64 - indexBit))
		}

		// Add carry into the current window
		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			// If the window value is even, preserve the carry and continue.
			// Why is the carry preserved?
			// If carry == 0 and window & 1 == 0,
			//    then the next carry should be 0
			// If carry == 1 and window & 1 == 0,
			//    then bit_buf & 1 == 1 so the next carry should be 1
			pos += 1
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(window) - int8(width)
		}

		pos += w
	}
	return naf
}
