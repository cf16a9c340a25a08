// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package salty

import (
	cryptorand "crypto/rand"
	"math/big"
	"math/rand"
	"testing"

	"filippo.io/edwards25519/field"
	"github.com/stretchr/testify/require"
)

// feP is the field order 2^255 - 19.
var feP = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

// leBytes32 encodes n as 32 little-endian bytes. n must be below 2^256.
func leBytes32(n *big.Int) []byte {
	be := n.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i := range be {
		le[31-i] = be[i]
	}
	return le
}

// bigFromLE decodes 32 little-endian bytes.
func bigFromLE(b []byte) *big.Int {
	be := make([]byte, 32)
	for i := range b {
		be[31-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

func feFromBig(t *testing.T, n *big.Int) *FieldElement {
	t.Helper()
	v, err := new(FieldElement).SetBytes(leBytes32(n))
	require.NoError(t, err)
	return v
}

// feBig returns the canonical residue of v.
func feBig(v *FieldElement) *big.Int {
	return bigFromLE(v.Bytes())
}

// randFe draws a value below 2^255; it may exceed p, which every
// operation must tolerate.
func randFe(t *testing.T, r *rand.Rand) *FieldElement {
	t.Helper()
	var buf [32]byte
	r.Read(buf[:])
	v, err := new(FieldElement).SetBytes(buf[:])
	require.NoError(t, err)
	return v
}

func TestFieldVectors(t *testing.T) {
	one := new(FieldElement).One()

	// 1 * 1 = 1
	var v FieldElement
	v.Multiply(one, one)
	require.Equal(t, leBytes32(big.NewInt(1)), v.Bytes())

	// 2 * 2^254 = 2^255 = 19 (mod p)
	two := feFromBig(t, big.NewInt(2))
	pow254 := feFromBig(t, new(big.Int).Lsh(big.NewInt(1), 254))
	v.Multiply(two, pow254)
	require.Equal(t, leBytes32(big.NewInt(19)), v.Bytes())

	// (p - 1)^2 = 1
	pMinusOne := feFromBig(t, new(big.Int).Sub(feP, big.NewInt(1)))
	require.Equal(t, byte(0xec), pMinusOne.Bytes()[0])
	require.Equal(t, byte(0x7f), pMinusOne.Bytes()[31])
	v.Square(pMinusOne)
	require.Equal(t, leBytes32(big.NewInt(1)), v.Bytes())

	// 1/2 = (p + 1) / 2
	v.Invert(two)
	half := new(big.Int).Add(feP, big.NewInt(1))
	half.Rsh(half, 1)
	want := leBytes32(half)
	require.Equal(t, byte(0xf7), want[0])
	require.Equal(t, byte(0x3f), want[31])
	require.Equal(t, want, v.Bytes())
}

func TestFieldAddSubNegate(t *testing.T) {
	r := rand.New(rand.NewSource(100))
	zero := new(FieldElement).Zero()
	for i := 0; i < 200; i++ {
		a := randFe(t, r)
		b := randFe(t, r)
		aBig := feBig(a)
		bBig := feBig(b)

		var v FieldElement
		v.Add(a, b)
		want := new(big.Int).Add(aBig, bBig)
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		v.Subtract(a, b)
		want.Sub(aBig, bBig)
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		v.Negate(a)
		want.Neg(aBig)
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		// x + 0 = x, x + (-x) = 0
		v.Add(a, zero)
		require.Equal(t, 1, v.EqualVartime(a))
		var n FieldElement
		n.Negate(a)
		v.Add(a, &n)
		require.Zero(t, v.IsZero())

		// commutativity
		var w FieldElement
		v.Add(a, b)
		w.Add(b, a)
		require.Equal(t, 1, v.EqualVartime(&w))

		// aliasing: out may be either operand
		v.Set(a)
		v.Add(&v, b)
		w.Add(a, b)
		require.Equal(t, w.Bytes(), v.Bytes())
		v.Set(b)
		v.Subtract(a, &v)
		w.Subtract(a, b)
		require.Equal(t, w.Bytes(), v.Bytes())
	}
}

func TestFieldMultiplySquare(t *testing.T) {
	r := rand.New(rand.NewSource(101))
	for i := 0; i < 200; i++ {
		a := randFe(t, r)
		b := randFe(t, r)
		aBig := feBig(a)
		bBig := feBig(b)

		var v FieldElement
		v.Multiply(a, b)
		want := new(big.Int).Mul(aBig, bBig)
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		// cross-check against filippo.io/edwards25519
		fa, err := new(field.Element).SetBytes(a.Bytes())
		require.NoError(t, err)
		fb, err := new(field.Element).SetBytes(b.Bytes())
		require.NoError(t, err)
		require.Equal(t, new(field.Element).Multiply(fa, fb).Bytes(), v.Bytes())

		// Square is bit-identical to Multiply(x, x).
		var s, m FieldElement
		s.Square(a)
		m.Multiply(a, a)
		require.Equal(t, m, s)

		// distributivity: a*(b+c) == a*b + a*c
		c := randFe(t, r)
		var bc, left, ab, ac, right FieldElement
		bc.Add(b, c)
		left.Multiply(a, &bc)
		ab.Multiply(a, b)
		ac.Multiply(a, c)
		right.Add(&ab, &ac)
		require.Equal(t, 1, left.EqualVartime(&right))
	}
}

func TestFieldMult16(t *testing.T) {
	r := rand.New(rand.NewSource(102))
	for i := 0; i < 200; i++ {
		a := randFe(t, r)
		k := uint16(r.Uint32())
		aBig := feBig(a)

		var v FieldElement
		v.Mult16(a, k)
		want := new(big.Int).Mul(aBig, big.NewInt(int64(k)))
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		// in place
		v.Set(a)
		v.Mult16(&v, k)
		require.Equal(t, 0, want.Cmp(feBig(&v)))
	}
}

func TestFieldMult121666(t *testing.T) {
	r := rand.New(rand.NewSource(103))
	for i := 0; i < 200; i++ {
		a := randFe(t, r)

		var v FieldElement
		v.Mult121666(a)
		want := new(big.Int).Mul(feBig(a), big.NewInt(121666))
		want.Mod(want, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))

		fa, err := new(field.Element).SetBytes(a.Bytes())
		require.NoError(t, err)
		require.Equal(t, new(field.Element).Mult32(fa, 121666).Bytes(), v.Bytes())

		// in place
		v.Set(a)
		v.Mult121666(&v)
		require.Equal(t, 0, want.Cmp(feBig(&v)))
	}
}

func TestFieldInvert(t *testing.T) {
	r := rand.New(rand.NewSource(104))
	one := new(FieldElement).One()
	for i := 0; i < 50; i++ {
		a := randFe(t, r)
		if feBig(a).Sign() == 0 {
			continue
		}

		var inv, prod FieldElement
		inv.Invert(a)
		prod.Multiply(a, &inv)
		require.Equal(t, 1, prod.EqualVartime(one))

		fa, err := new(field.Element).SetBytes(a.Bytes())
		require.NoError(t, err)
		require.Equal(t, new(field.Element).Invert(fa).Bytes(), inv.Bytes())
	}

	// 1/0 is defined as 0 by the Fermat chain.
	var inv FieldElement
	inv.Invert(new(FieldElement).Zero())
	require.Zero(t, bigFromLE(inv.Bytes()).Sign())
}

func TestFieldPow2523(t *testing.T) {
	r := rand.New(rand.NewSource(105))
	exp := new(big.Int).Sub(feP, big.NewInt(5))
	exp.Rsh(exp, 3) // (p-5)/8
	for i := 0; i < 30; i++ {
		a := randFe(t, r)

		var v FieldElement
		v.Pow2523(a)
		want := new(big.Int).Exp(feBig(a), exp, feP)
		require.Equal(t, 0, want.Cmp(feBig(&v)))
	}
}

func TestFieldSquareRoot(t *testing.T) {
	r := rand.New(rand.NewSource(106))
	// Squares exercise both the fourth-power branch and the b = p-1
	// branch, depending on whether w itself is a residue.
	for i := 0; i < 30; i++ {
		w := randFe(t, r)
		var x FieldElement
		x.Square(w)

		var s, ss FieldElement
		s.SquareRoot(&x)
		ss.Square(&s)
		require.Equal(t, 1, ss.EqualVartime(&x), "sqrt of a square must square back")
	}

	// 4 = 2^2 has the roots 2 and p-2.
	four := feFromBig(t, big.NewInt(4))
	var s FieldElement
	s.SquareRoot(four)
	got := feBig(&s)
	if got.Cmp(big.NewInt(2)) != 0 {
		require.Equal(t, 0, got.Cmp(new(big.Int).Sub(feP, big.NewInt(2))))
	}
}

func TestFieldReduceAndBytes(t *testing.T) {
	r := rand.New(rand.NewSource(107))
	for i := 0; i < 200; i++ {
		// pack(unpack(b)) == b for canonical b
		n := new(big.Int).Rand(r, feP)
		b := leBytes32(n)
		v, err := new(FieldElement).SetBytes(b)
		require.NoError(t, err)
		require.Equal(t, b, v.Bytes())

		// unpack(pack(x)) == reduce(x)
		x := randFe(t, r)
		u, err := new(FieldElement).SetBytes(x.Bytes())
		require.NoError(t, err)
		red := *x
		red.Reduce()
		require.Equal(t, red.Bytes(), u.Bytes())
		require.Less(t, feBig(&red).Cmp(feP), 0)
	}

	// Values congruent modulo p but in different relaxed
	// representations compare equal and pack identically.
	x := randFe(t, r)
	var xPlusP FieldElement
	xPlusP.Subtract(x, new(FieldElement).Zero()) // sets bit 255, adds p
	require.Equal(t, 1, x.EqualVartime(&xPlusP))
	require.Equal(t, x.Bytes(), xPlusP.Bytes())

	// 2^255 - 1 reduces to 18.
	all := feFromBig(t, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)))
	require.Equal(t, leBytes32(big.NewInt(18)), all.Bytes())

	// p reduces to zero.
	pv := feFromBig(t, feP)
	require.Equal(t, leBytes32(big.NewInt(0)), pv.Bytes())
	require.Zero(t, pv.IsZero())
}

func TestFieldPredicates(t *testing.T) {
	zero := new(FieldElement).Zero()
	require.Zero(t, zero.IsZero())
	require.Equal(t, 0, zero.Parity())

	one := new(FieldElement).One()
	require.Equal(t, 1, one.Parity())

	big64 := feFromBig(t, new(big.Int).Lsh(big.NewInt(1), 64))
	require.NotZero(t, big64.IsZero())
	require.Equal(t, 0, big64.Parity())

	pMinusOne := feFromBig(t, new(big.Int).Sub(feP, big.NewInt(1)))
	require.NotZero(t, pMinusOne.IsZero())
	require.Equal(t, 0, pMinusOne.Parity()) // p - 1 = 2^255 - 20 is even

	require.Equal(t, 0, one.EqualVartime(zero))
	require.Equal(t, 1, one.EqualVartime(new(FieldElement).One()))
}

func TestFieldCMovCSwap(t *testing.T) {
	r := rand.New(rand.NewSource(108))
	a := randFe(t, r)
	b := randFe(t, r)

	v := *a
	v.CMov(b, 0)
	require.Equal(t, *a, v)
	v.CMov(b, 1)
	require.Equal(t, *b, v)

	x, y := *a, *b
	x.CSwap(&y, 0)
	require.Equal(t, *a, x)
	require.Equal(t, *b, y)
	x.CSwap(&y, 1)
	require.Equal(t, *b, x)
	require.Equal(t, *a, y)
}

func TestFieldSetRandom(t *testing.T) {
	var v FieldElement
	_, err := v.SetRandom(cryptorand.Reader)
	require.NoError(t, err)

	// Must interoperate with the rest of the arithmetic.
	var sq FieldElement
	sq.Square(&v)
	want := new(big.Int).Mul(feBig(&v), feBig(&v))
	want.Mod(want, feP)
	require.Equal(t, 0, want.Cmp(feBig(&sq)))
}
