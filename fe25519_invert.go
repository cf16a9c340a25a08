// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package salty

// Invert sets v = 1/x (mod p), and returns v. If x == 0, v is set to
// zero. The exponentiation by p - 2 runs in constant time.
func (v *FieldElement) Invert(x *FieldElement) *FieldElement {
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t FieldElement

	z2.Square(x)           // 2
	t.Square(&z2)          // 4
	t.Square(&t)           // 8
	z9.Multiply(&t, x)     // 9
	z11.Multiply(&z9, &z2) // 11
	t.Square(&z11)         // 22
	z2_5_0.Multiply(&t, &z9)

	t.Square(&z2_5_0)
	for i := 1; i < 5; i++ {
		t.Square(&t)
	}
	z2_10_0.Multiply(&t, &z2_5_0)

	t.Square(&z2_10_0)
	for i := 1; i < 10; i++ {
		t.Square(&t)
	}
	z2_20_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_20_0)
	for i := 1; i < 20; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_20_0)

	t.Square(&t)
	for i := 1; i < 10; i++ {
		t.Square(&t)
	}
	z2_50_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_50_0)
	for i := 1; i < 50; i++ {
		t.Square(&t)
	}
	z2_100_0.Multiply(&t, &z2_50_0)

	t.Square(&z2_100_0)
	for i := 1; i < 100; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_100_0)

	t.Square(&t)
	for i := 1; i < 50; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_50_0)

	// 2^255 - 2^5
	for i := 0; i < 5; i++ {
		t.Square(&t)
	}
	// 2^255 - 21
	v.Multiply(&t, &z11)
	return v
}

// Pow2523 sets v = x^((p-5)/8) = x^(2^252-3), and returns v. The
// exponent is the one used when decompressing Edwards points and
// computing square roots, and the chain runs in constant time.
func (v *FieldElement) Pow2523(x *FieldElement) *FieldElement {
	var t0, t1, t2 FieldElement

	z11 := &t2
	z2_10_0 := &t1
	z2_50_0 := &t2
	z2_100_0 := z2_10_0

	{
		z2 := z2_50_0

		z2.Square(x)              // 2
		t0.Square(z2)             // 4
		t0.Square(&t0)            // 8
		z2_10_0.Multiply(&t0, x)  // 9
		z11.Multiply(z2_10_0, z2) // 11

		// z2 is dead.
	}

	t0.Square(z11) // 22
	// 2^5 - 2^0 = 31
	z2_10_0.Multiply(&t0, z2_10_0)

	t0.Square(z2_10_0) // 2^6 - 2^1
	t0.Square(&t0)     // 2^7 - 2^2
	t0.Square(&t0)     // 2^8 - 2^3
	t0.Square(&t0)     // 2^9 - 2^4
	t0.Square(&t0)     // 2^10 - 2^5
	// 2^10 - 2^0
	z2_10_0.Multiply(&t0, z2_10_0)

	t0.Square(z2_10_0) // 2^11 - 2^1
	// 2^20 - 2^10
	for i := 1; i < 10; i++ {
		t0.Square(&t0)
	}
	// 2^20 - 2^0
	z2_50_0.Multiply(&t0, z2_10_0)

	t0.Square(z2_50_0) // 2^21 - 2^1
	// 2^40 - 2^20
	for i := 1; i < 20; i++ {
		t0.Square(&t0)
	}
	// 2^40 - 2^0
	t0.Multiply(&t0, z2_50_0)

	t0.Square(&t0) // 2^41 - 2^1
	// 2^50 - 2^10
	for i := 1; i < 10; i++ {
		t0.Square(&t0)
	}
	// 2^50 - 2^0
	z2_50_0.Multiply(&t0, z2_10_0)

	t0.Square(z2_50_0) // 2^51 - 2^1
	// 2^100 - 2^50
	for i := 1; i < 50; i++ {
		t0.Square(&t0)
	}
	// 2^100 - 2^0
	z2_100_0.Multiply(&t0, z2_50_0)

	t0.Square(z2_100_0) // 2^101 - 2^1
	// 2^200 - 2^100
	for i := 1; i < 100; i++ {
		t0.Square(&t0)
	}
	// 2^200 - 2^0
	t0.Multiply(&t0, z2_100_0)

	// 2^250 - 2^50
	for i := 0; i < 50; i++ {
		t0.Square(&t0)
	}
	// 2^250 - 2^0
	t0.Multiply(&t0, z2_50_0)

	t0.Square(&t0) // 2^251 - 2^1
	t0.Square(&t0) // 2^252 - 2^2
	// 2^252 - 3
	v.Multiply(&t0, x)
	return v
}

// SquareRoot sets v to a square root of x and returns v, following
// algorithm 3.37 from the Handbook of Applied Cryptography specialised
// to p = 5 (mod 8). If x is not a quadratic residue no square root
// exists and the result is unspecified; callers are expected to square
// the result and compare when the input is not known to be a residue.
//
// SquareRoot runs in variable time and must only be used on public
// values, such as coordinates of transmitted points.
func (v *FieldElement) SquareRoot(x *FieldElement) *FieldElement {
	var d, b, r, one FieldElement
	one.One()
	d.Set(x)
	b.Set(x)

	// b = x^((p-1)/4)
	d.Square(&d)
	b.Multiply(&d, &b)
	d.Square(&d)
	for i := 0; i < 250; i++ {
		d.Square(&d)
		b.Multiply(&d, &b)
	}

	if b.EqualVartime(&one) == 1 {
		// x is a fourth power: r = x^((p+3)/8).
		d.Set(x)
		r.One()
		for i := 0; i < 251; i++ {
			d.Square(&d)
			r.Multiply(&r, &d)
		}
	} else {
		// b = p - 1: r = 2x * (4x)^((p-5)/8).
		var twoX FieldElement
		twoX.Add(x, x)
		r.Add(&twoX, &twoX)
		d.Set(&r)
		d.Square(&d)
		for i := 0; i < 250; i++ {
			d.Square(&d)
			r.Multiply(&r, &d)
		}
		r.Multiply(&r, &twoX)
	}

	v.Set(&r)
	return v
}
