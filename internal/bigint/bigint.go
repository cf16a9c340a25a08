// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bigint provides the fixed-width unsigned integer containers
// and the multiplier tower that the fe25519 and sc25519 layers are
// built on.
//
// Values are arrays of 32 bit words in little-endian word order. The
// tower is written for register-starved 32 bit targets: every product
// decomposes down to 32x32->64 bit multiplications assembled from
// 16 bit hardware products, using Karatsuba recursion with a signed
// middle term above 64 bits.
package bigint

import "encoding/binary"

// Fixed-width values. The bit width in the name is the significant
// width; Uint136 and Uint272 keep their top 8 and 16 bits in the low
// lanes of the last word.
type (
	Uint64  [2]uint32
	Uint96  [3]uint32
	Uint128 [4]uint32
	Uint136 [5]uint32
	Uint192 [6]uint32
	Uint256 [8]uint32
	Uint272 [9]uint32
	Uint288 [9]uint32
	Uint384 [12]uint32
	Uint512 [16]uint32
	Uint576 [18]uint32
)

// SetZero sets v = 0.
func (v *Uint256) SetZero() {
	*v = Uint256{}
}

// SetOne sets v = 1.
func (v *Uint256) SetOne() {
	*v = Uint256{1}
}

// SetBytes interprets b as a 256 bit little-endian integer. It panics
// if b is not 32 bytes.
func (v *Uint256) SetBytes(b []byte) {
	_ = b[31]
	for i := 0; i < 8; i++ {
		v[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
}

// Bytes returns the 32 byte little-endian encoding of v.
func (v *Uint256) Bytes() [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(out[4*i:], v[i])
	}
	return out
}

// SetBytes interprets b as a 512 bit little-endian integer. It panics
// if b is not 64 bytes.
func (v *Uint512) SetBytes(b []byte) {
	_ = b[63]
	for i := 0; i < 16; i++ {
		v[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
}

// CMov256 sets r = x if cond == 1 and leaves it unchanged if
// cond == 0, without branching on cond.
func CMov256(r *Uint256, x *Uint256, cond uint32) {
	mask := -cond
	for i := 0; i < 8; i++ {
		r[i] ^= mask & (x[i] ^ r[i])
	}
}

// CMov192 is CMov256 for 192 bit values.
func CMov192(r *Uint192, x *Uint192, cond uint32) {
	mask := -cond
	for i := 0; i < 6; i++ {
		r[i] ^= mask & (x[i] ^ r[i])
	}
}

// CSwap256 exchanges a and b if cond == 1 and leaves both unchanged
// if cond == 0, without branching on cond.
func CSwap256(a, b *Uint256, cond uint32) {
	mask := -cond
	for i := 0; i < 8; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// ShiftLeftOne sets v = v << 1, dropping the carry out of bit 255.
func ShiftLeftOne(v *Uint256) {
	carry := uint32(0)
	for i := 0; i < 8; i++ {
		w := v[i]
		v[i] = w<<1 | carry
		carry = w >> 31
	}
}

// ShiftRightOne sets v = v >> 1, keeping bit 255 set if it was set on
// entry. The extended GCD stores negative two's-complement values in
// Uint256 operands and needs the arithmetic shift.
func ShiftRightOne(v *Uint256) {
	sign := v[7] & 0x80000000
	for i := 0; i < 7; i++ {
		v[i] = v[i]>>1 | v[i+1]<<31
	}
	v[7] = v[7]>>1 | sign
}

// IsEqual returns 0 iff x == y, and a nonzero value otherwise. It runs
// in constant time.
func IsEqual(x, y *Uint256) uint32 {
	var d uint32
	for i := 0; i < 8; i++ {
		d |= x[i] ^ y[i]
	}
	return d
}

// LessThan returns 1 if x < y and 0 otherwise, read off the borrow out
// of the 256 bit difference x - y.
func LessThan(x, y *Uint256) uint32 {
	t := *x
	return uint32(-Sub(t[:], y[:]))
}

// Add sets dst += x word-wise and returns the carry out. The slices
// must be the same length.
func Add(dst, x []uint32) int32 {
	var accu int64
	for i := range dst {
		accu += int64(dst[i])
		accu += int64(x[i])
		dst[i] = uint32(accu)
		accu >>= 32
	}
	return int32(accu)
}

// Sub sets dst -= x word-wise and returns the borrow out (-1 on
// underflow, 0 otherwise). The slices must be the same length.
func Sub(dst, x []uint32) int32 {
	var accu int64
	for i := range dst {
		accu += int64(dst[i])
		accu -= int64(x[i])
		dst[i] = uint32(accu)
		accu >>= 32
	}
	return int32(accu)
}

// IsNegative returns 1 if b < 0 and 0 otherwise, by arithmetic shift
// rather than comparison.
func IsNegative(b int8) uint32 {
	return uint32(uint16(int16(b))) >> 15
}

// Sub-views over larger values, replacing the byte/word lane unions of
// a 32 bit C layout.

func u64of(s []uint32) *Uint64   { return (*Uint64)((*[2]uint32)(s)) }
func u96of(s []uint32) *Uint96   { return (*Uint96)((*[3]uint32)(s)) }
func u128of(s []uint32) *Uint128 { return (*Uint128)((*[4]uint32)(s)) }
func u192of(s []uint32) *Uint192 { return (*Uint192)((*[6]uint32)(s)) }
func u256of(s []uint32) *Uint256 { return (*Uint256)((*[8]uint32)(s)) }
