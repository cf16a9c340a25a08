// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigint

// Mul32x32 multiplies two 32 bit values into a 64 bit result using
// four 16 bit hardware products.
func Mul32x32(x, y uint32) uint64 {
	r := uint64((x&0xffff)*(y&0xffff)) |
		uint64((x>>16)*(y>>16))<<32
	r += uint64((x&0xffff)*(y>>16)) << 16
	r += uint64((y&0xffff)*(x>>16)) << 16
	return r
}

// Mul16x32 multiplies a 16 bit value by a 32 bit value into a 48 bit
// result using two 16 bit products.
func Mul16x32(x uint16, y uint32) uint64 {
	r := uint64(uint32(x) * (y & 0xffff))
	r += uint64(uint32(x)*(y>>16)) << 16
	return r
}

// mul32x64 multiplies a 32 bit value by a 64 bit value into a 96 bit
// result.
func mul32x64(r *Uint96, x uint32, y *Uint64) {
	t := Mul32x32(x, y[0])
	r[0] = uint32(t)
	t = Mul32x32(x, y[1]) + t>>32
	r[1] = uint32(t)
	r[2] = uint32(t >> 32)
}

// mul64x64Params collects the operands and the result of mul64x64 so
// that an inlined call can reach all of them through one pointer,
// which keeps the live-register count down on 32 bit targets.
type mul64x64Params struct {
	x Uint64
	y Uint64
	r Uint128
}

// multiply computes p.r = p.x * p.y by Karatsuba on 32 bit halves.
// Cheaper than the textbook variant mainly because fewer memory
// accesses are needed.
func (p *mul64x64Params) multiply() {
	x0, x1 := p.x[0], p.x[1]
	y0, y1 := p.y[0], p.y[1]

	// B = x0 * y0
	b := uint64((x0&0xffff)*(y0&0xffff)) |
		uint64((x0>>16)*(y0>>16))<<32
	b += uint64((x0&0xffff)*(y0>>16)) << 16
	b += uint64((y0&0xffff)*(x0>>16)) << 16
	lowB := uint32(b)
	highB := uint32(b >> 32)
	p.r[0] = lowB

	// A = x1 * y1
	a := uint64((x1 >> 16) * (y1 & 0xffff))
	a += uint64((x1 & 0xffff) * (y1 >> 16))
	a <<= 16
	a += uint64((x1 & 0xffff) * (y1 & 0xffff))
	lowA := uint32(a)
	highA := uint32(a>>32) + (x1>>16)*(y1>>16)

	// Accumulate the two finished products into the result words.
	accu := uint64(lowB) + uint64(highB) + uint64(lowA)
	p.r[1] = uint32(accu)
	accu >>= 32
	accu += uint64(highB) + uint64(lowA) + uint64(highA)
	p.r[2] = uint32(accu)
	p.r[3] = uint32(accu>>32) + highA

	// Signed middle term (x0 - x1) * (y1 - y0). The sign of each
	// difference lives in a one-bit upper word; the masked
	// subtractions below fold it into the accumulation instead of
	// taking absolute values.
	alpha := int64(x0) - int64(x1)
	lowAlpha := uint32(alpha)
	highAlpha := int32(alpha >> 32)

	// Inverted sign for the second difference, so the product may
	// always be added.
	beta := int64(y1) - int64(y0)
	lowBeta := uint32(beta)
	highBeta := int32(beta >> 32)

	acc := int64(uint64(p.r[2]) | uint64(p.r[3])<<32)
	acc -= int64(uint32(highBeta) & lowAlpha)
	acc -= int64(uint32(highAlpha) & lowBeta)
	p.r[2] = uint32(acc)
	accHigh := int32(acc>>32) + highBeta*highAlpha
	p.r[3] = uint32(accHigh)

	// C = lowAlpha * lowBeta
	c := uint64((lowAlpha & 0xffff) * (lowBeta >> 16))
	c += uint64((lowBeta & 0xffff) * (lowAlpha >> 16))
	c <<= 16
	c += uint64((lowAlpha & 0xffff) * (lowBeta & 0xffff))
	lowC := uint32(c)
	highC := uint32(c>>32) + (lowAlpha>>16)*(lowBeta>>16)

	t := uint64(p.r[1]) + uint64(lowC)
	p.r[1] = uint32(t)
	t >>= 32
	t += uint64(p.r[2]) | uint64(p.r[3])<<32
	t += uint64(highC)
	p.r[2] = uint32(t)
	p.r[3] = uint32(t >> 32)
}

// Mul64 multiplies two 64 bit values into a 128 bit result.
func Mul64(r *Uint128, x, y *Uint64) {
	var p mul64x64Params
	p.x = *x
	p.y = *y
	p.multiply()
	*r = p.r
}

// Sqr64 squares a 64 bit value into a 128 bit result. The off-diagonal
// 16 bit products are folded in doubled, hence the shifts by 17.
func Sqr64(r *Uint128, x *Uint64) {
	f0 := x[0] & 0xffff
	f1 := x[0] >> 16
	f2 := x[1] & 0xffff
	f3 := x[1] >> 16

	accu := uint64(f0 * f0)
	accu += uint64(f1*f0) << 17
	r[0] = uint32(accu)
	accu >>= 32

	accu += uint64(f1 * f1)
	t := f0 * f2
	accu += uint64(t)
	accu += uint64(t)
	accu += (uint64(f1*f2) + uint64(f0*f3)) << 17
	r[1] = uint32(accu)
	accu >>= 32

	accu += uint64(f2 * f2)
	t = f1 * f3
	accu += uint64(t)
	accu += uint64(t)
	accu += uint64(f2*f3) << 17
	r[2] = uint32(accu)

	r[3] = uint32(accu>>32) + f3*f3
}

// Mul96 multiplies two 96 bit values into a 192 bit result, split as
// 64||32: one 64x64, one 32x32 and two 32x64 cross terms.
func Mul96(r *Uint192, x, y *Uint96) {
	Mul64(u128of(r[0:4]), u64of(x[0:2]), u64of(y[0:2]))
	t := Mul32x32(x[2], y[2])
	r[4] = uint32(t)
	r[5] = uint32(t >> 32)

	var tmp1, tmp2 Uint96
	mul32x64(&tmp1, y[2], u64of(x[0:2]))
	mul32x64(&tmp2, x[2], u64of(y[0:2]))

	var accu uint64
	for i := 0; i < 3; i++ {
		accu += uint64(r[2+i])
		accu += uint64(tmp1[i])
		accu += uint64(tmp2[i])
		r[2+i] = uint32(accu)
		accu >>= 32
	}
	r[5] += uint32(accu)
}

// Sqr96 squares a 96 bit value into a 192 bit result.
func Sqr96(r *Uint192, x *Uint96) {
	Sqr64(u128of(r[0:4]), u64of(x[0:2]))
	t := Mul32x32(x[2], x[2])
	r[4] = uint32(t)
	r[5] = uint32(t >> 32)

	var tmp Uint96
	mul32x64(&tmp, x[2], u64of(x[0:2]))

	var accu uint64
	for i := 0; i < 3; i++ {
		accu += uint64(r[2+i])
		accu += uint64(tmp[i])
		accu += uint64(tmp[i])
		r[2+i] = uint32(accu)
		accu >>= 32
	}
	r[5] += uint32(accu)
}

// Mul128 multiplies two 128 bit values into a 256 bit result by
// Karatsuba on 64 bit halves.
func Mul128(r *Uint256, x, y *Uint128) {
	var m1, m2, m3 mul64x64Params
	var m3mswX, m3mswY int32

	// Copy the operands into the prepared parameter blocks while
	// forming the half differences for the middle term.
	{
		var accu int64

		reg := x[2]
		m2.x[0] = reg
		accu = int64(reg)

		reg = x[0]
		m1.x[0] = reg
		accu -= int64(reg)

		m3.x[0] = uint32(accu)
		accu >>= 32

		reg = x[3]
		m2.x[1] = reg
		accu += int64(reg)

		reg = x[1]
		m1.x[1] = reg
		accu -= int64(reg)

		m3.x[1] = uint32(accu)
		m3mswX = int32(accu >> 32)
	}

	{
		var accu int64

		reg := y[0]
		m1.y[0] = reg
		accu = int64(reg)

		reg = y[2]
		m2.y[0] = reg
		accu -= int64(reg)

		m3.y[0] = uint32(accu)
		accu >>= 32

		reg = y[1]
		m1.y[1] = reg
		accu += int64(reg)

		reg = y[3]
		m2.y[1] = reg
		accu -= int64(reg)

		m3.y[1] = uint32(accu)
		m3mswY = int32(accu >> 32)
	}

	m1.multiply()
	m2.multiply()
	m3.multiply()

	{
		tmp1 := m1.r[0]
		r[0] = tmp1
		tmp2 := m1.r[1]
		r[1] = tmp2

		accu := int64(tmp1)
		accu += int64(m1.r[2])
		accu += int64(m2.r[0])
		accu += int64(m3.r[0])
		r[2] = uint32(accu)
		accu >>= 32

		accu += int64(tmp2)
		accu += int64(m1.r[3])
		accu += int64(m2.r[1])
		accu += int64(m3.r[1])
		r[3] = uint32(accu)
		accu >>= 32

		accu += int64(m2.r[0])
		accu += int64(m1.r[2])
		accu += int64(m2.r[2])
		accu += int64(m3.r[2])
		accu -= int64(uint32(m3mswY) & m3.x[0])
		accu -= int64(uint32(m3mswX) & m3.y[0])
		r[4] = uint32(accu)
		accu >>= 32

		accu += int64(m2.r[1])
		accu += int64(m1.r[3])
		accu += int64(m2.r[3])
		accu += int64(m3.r[3])
		accu -= int64(uint32(m3mswY) & m3.x[1])
		accu -= int64(uint32(m3mswX) & m3.y[1])
		r[5] = uint32(accu)
		accu >>= 32

		accu += int64(m3mswX * m3mswY)
		accu += int64(m2.r[2])
		r[6] = uint32(accu)
		r[7] = uint32(accu>>32) + m2.r[3]
	}
}

// Sqr128 squares a 128 bit value into a 256 bit result.
func Sqr128(r *Uint256, x *Uint128) {
	Sqr64(u128of(r[0:4]), u64of(x[0:2]))
	Sqr64(u128of(r[4:8]), u64of(x[2:4]))

	var temp Uint128
	Mul64(&temp, u64of(x[0:2]), u64of(x[2:4]))

	var accu uint64
	for i := 0; i < 4; i++ {
		accu += uint64(r[2+i])
		accu += uint64(temp[i])
		accu += uint64(temp[i])
		r[2+i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(r[6])
	r[6] = uint32(accu)
	accu >>= 32
	accu += uint64(r[7])
	r[7] = uint32(accu)
}

// Mul192 multiplies two 192 bit values into a 384 bit result by
// Karatsuba on 96 bit halves:
//
//	high                              low
//	+--------+--------+ +--------+--------+
//	|      x1*y1      | |      x0*y0      |
//	+--------+--------+ +--------+--------+
//	         +--------+--------+
//	     add |      x1*y1      |
//	         +--------+--------+
//	         +--------+--------+
//	     add |      x0*y0      |
//	         +--------+--------+
//	         +--------+--------+
//	     add | (x1-x0)*(y0-y1) |
//	         +--------+--------+
func Mul192(r *Uint384, x, y *Uint192) {
	Mul96(u192of(r[0:6]), u96of(x[0:3]), u96of(y[0:3]))
	Mul96(u192of(r[6:12]), u96of(x[3:6]), u96of(y[3:6]))

	var deltaX, deltaY Uint96
	var upperX, upperY int32

	{
		accu := int64(x[3])
		accu -= int64(x[0])
		deltaX[0] = uint32(accu)

		accu >>= 32
		accu += int64(x[4])
		accu -= int64(x[1])
		deltaX[1] = uint32(accu)

		accu >>= 32
		accu += int64(x[5])
		accu -= int64(x[2])
		deltaX[2] = uint32(accu)

		upperX = int32(accu >> 32)
	}

	{
		// Inverted sign relative to deltaX, so the product may
		// always be added.
		accu := int64(y[0])
		accu -= int64(y[3])
		deltaY[0] = uint32(accu)

		accu >>= 32
		accu += int64(y[1])
		accu -= int64(y[4])
		deltaY[1] = uint32(accu)

		accu >>= 32
		accu += int64(y[2])
		accu -= int64(y[5])
		deltaY[2] = uint32(accu)

		upperY = int32(accu >> 32)
	}

	var temp Uint192
	Mul96(&temp, &deltaX, &deltaY)

	var accu int64
	for i := 0; i < 3; i++ {
		accu += int64(r[i])     // lower half of x0*y0
		accu += int64(r[3+i])   // upper half of x0*y0
		accu += int64(r[6+i])   // lower half of x1*y1
		accu += int64(temp[i])  // lower half of difference product
		temp[i] = uint32(accu)  // parked here, the result words are still needed
		accu >>= 32
	}

	for i := 0; i < 3; i++ {
		accu += int64(temp[i+3]) // upper half of difference product
		accu -= int64(deltaY[i] & uint32(upperX))
		accu -= int64(deltaX[i] & uint32(upperY))

		accu += int64(r[3+i]) // upper half of x0*y0
		accu += int64(r[9+i]) // upper half of x1*y1
		accu += int64(r[6+i]) // lower half of x1*y1

		r[6+i] = uint32(accu)
		accu >>= 32
	}
	accu += int64(upperX * upperY)

	for i := 0; i < 2; i++ {
		accu += int64(r[9+i])
		r[9+i] = uint32(accu)
		accu >>= 32
	}
	r[11] += uint32(accu)

	r[3] = temp[0]
	r[4] = temp[1]
	r[5] = temp[2]
}

// Sqr192 squares a 192 bit value into a 384 bit result.
func Sqr192(r *Uint384, x *Uint192) {
	Sqr96(u192of(r[0:6]), u96of(x[0:3]))
	Sqr96(u192of(r[6:12]), u96of(x[3:6]))

	var temp Uint192
	Mul96(&temp, u96of(x[0:3]), u96of(x[3:6]))

	var accu uint64
	for i := 0; i < 6; i++ {
		accu += uint64(r[3+i])
		accu += uint64(temp[i])
		accu += uint64(temp[i])
		r[3+i] = uint32(accu)
		accu >>= 32
	}

	for i := 0; i < 2; i++ {
		accu += uint64(r[9+i])
		r[9+i] = uint32(accu)
		accu >>= 32
	}
	r[11] += uint32(accu)
}

// Mul256 multiplies two 256 bit values into a 512 bit result by
// Karatsuba on 128 bit halves. The layout is the same as Mul192 one
// level up.
func Mul256(r *Uint512, x, y *Uint256) {
	Mul128(u256of(r[0:8]), u128of(x[0:4]), u128of(y[0:4]))
	Mul128(u256of(r[8:16]), u128of(x[4:8]), u128of(y[4:8]))

	var deltaX, deltaY Uint128
	var upperX, upperY int32

	{
		accu := int64(x[4])
		accu -= int64(x[0])
		deltaX[0] = uint32(accu)

		accu >>= 32
		accu += int64(x[5])
		accu -= int64(x[1])
		deltaX[1] = uint32(accu)

		accu >>= 32
		accu += int64(x[6])
		accu -= int64(x[2])
		deltaX[2] = uint32(accu)

		accu >>= 32
		accu += int64(x[7])
		accu -= int64(x[3])
		deltaX[3] = uint32(accu)

		upperX = int32(accu >> 32)
	}

	{
		// Inverted sign relative to deltaX, so the product may
		// always be added.
		accu := int64(y[0])
		accu -= int64(y[4])
		deltaY[0] = uint32(accu)

		accu >>= 32
		accu += int64(y[1])
		accu -= int64(y[5])
		deltaY[1] = uint32(accu)

		accu >>= 32
		accu += int64(y[2])
		accu -= int64(y[6])
		deltaY[2] = uint32(accu)

		accu >>= 32
		accu += int64(y[3])
		accu -= int64(y[7])
		deltaY[3] = uint32(accu)

		upperY = int32(accu >> 32)
	}

	var temp Uint256
	Mul128(&temp, &deltaX, &deltaY)

	var accu int64
	for i := 0; i < 4; i++ {
		accu += int64(r[i])    // lower half of x0*y0
		accu += int64(r[4+i])  // upper half of x0*y0
		accu += int64(r[8+i])  // lower half of x1*y1
		accu += int64(temp[i]) // lower half of difference product
		temp[i] = uint32(accu) // parked here, the result words are still needed
		accu >>= 32
	}

	for i := 0; i < 4; i++ {
		accu += int64(temp[i+4]) // upper half of difference product
		accu -= int64(deltaY[i] & uint32(upperX))
		accu -= int64(deltaX[i] & uint32(upperY))

		accu += int64(r[4+i])  // upper half of x0*y0
		accu += int64(r[12+i]) // upper half of x1*y1
		accu += int64(r[8+i])  // lower half of x1*y1

		r[8+i] = uint32(accu)
		accu >>= 32
	}
	accu += int64(upperX * upperY)

	for i := 0; i < 3; i++ {
		accu += int64(r[12+i])
		r[12+i] = uint32(accu)
		accu >>= 32
	}
	r[15] += uint32(accu)

	r[4] = temp[0]
	r[5] = temp[1]
	r[6] = temp[2]
	r[7] = temp[3]
}

// Sqr256 squares a 256 bit value into a 512 bit result.
func Sqr256(r *Uint512, x *Uint256) {
	Sqr128(u256of(r[0:8]), u128of(x[0:4]))
	Sqr128(u256of(r[8:16]), u128of(x[4:8]))

	var temp Uint256
	Mul128(&temp, u128of(x[0:4]), u128of(x[4:8]))

	var accu uint64
	for i := 0; i < 8; i++ {
		accu += uint64(r[4+i])
		accu += uint64(temp[i])
		accu += uint64(temp[i])
		r[4+i] = uint32(accu)
		accu >>= 32
	}

	for i := 0; i < 3; i++ {
		accu += uint64(r[12+i])
		r[12+i] = uint32(accu)
		accu >>= 32
	}
	r[15] += uint32(accu)
}

// Mul288 multiplies two 288 bit values into a 576 bit result:
// a 256x256 product for the low part, one 32x32 for the top word and
// two 32x256 cross sums. Sized for the Barrett reduction modulo the
// scalar prime.
func Mul288(r *Uint576, x, y *Uint288) {
	Mul256(u512of(r[0:16]), u256of(x[0:8]), u256of(y[0:8]))

	{
		accu := Mul32x32(x[8], y[8])
		r[16] = uint32(accu)
		r[17] = uint32(accu >> 32)
	}

	var accu uint64
	for i := 0; i < 8; i++ {
		accu += uint64(r[8+i])
		t := Mul32x32(x[i], y[8])
		accu += uint64(uint32(t))
		r[8+i] = uint32(accu)
		accu >>= 32
		accu += t >> 32
	}
	accu += uint64(r[16])
	r[16] = uint32(accu)
	accu >>= 32
	r[17] += uint32(accu)

	accu = 0
	for i := 0; i < 8; i++ {
		accu += uint64(r[8+i])
		t := Mul32x32(y[i], x[8])
		accu += uint64(uint32(t))
		r[8+i] = uint32(accu)
		accu >>= 32
		accu += t >> 32
	}
	accu += uint64(r[16])
	r[16] = uint32(accu)
	r[17] += uint32(accu >> 32)
}

// Mul136 multiplies two 136 bit values into a 272 bit result:
// a 128x128 product plus byte-wide cross products for the top bytes.
// Was required for an old version of the poly1305 authenticator but
// is still kept.
func Mul136(r *Uint272, x, y *Uint136) {
	Mul128(u256of(r[0:8]), u128of(x[0:4]), u128of(y[0:4]))

	xmax := x[4] & 0xff
	ymax := y[4] & 0xff

	var accu uint64
	for i := 0; i < 4; i++ {
		accu += uint64(r[4+i])
		accu += uint64(xmax * (y[i] & 0xffff))
		accu += uint64(xmax*(y[i]>>16)) << 16
		accu += uint64(ymax * (x[i] & 0xffff))
		accu += uint64(ymax*(x[i]>>16)) << 16
		r[4+i] = uint32(accu)
		accu >>= 32
	}
	accu += uint64(xmax * ymax)
	r[8] = uint32(accu) & 0xffff
}

func u512of(s []uint32) *Uint512 { return (*Uint512)((*[16]uint32)(s)) }
