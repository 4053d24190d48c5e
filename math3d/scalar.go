// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

import "math"

// Pi is float32 π.
const Pi float32 = math.Pi

// Epsilon is the default tolerance used by Approx.
const Epsilon float32 = 1e-5

// ToRadian converts degrees to radians.
func ToRadian(deg float32) float32 { return deg * (Pi / 180) }

// ToDegree converts radians to degrees.
func ToDegree(rad float32) float32 { return rad * (180 / Pi) }

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 { return a + (b-a)*t }

// Approx reports whether a and b differ by at most tol.
func Approx(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func sqrt(v float32) float32 { return float32(math.Sqrt(float64(v))) }
func sin(v float32) float32  { return float32(math.Sin(float64(v))) }
func cos(v float32) float32  { return float32(math.Cos(float64(v))) }
func tan(v float32) float32  { return float32(math.Tan(float64(v))) }

// acos clamps its argument so rounding error cannot produce NaN.
func acos(v float32) float32 { return float32(math.Acos(float64(Clamp(v, -1, 1)))) }
func asin(v float32) float32 { return float32(math.Asin(float64(Clamp(v, -1, 1)))) }

func atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
