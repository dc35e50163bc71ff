// SPDX-License-Identifier: MPL-2.0

// Package unit implements compound units and physical quantities.
//
// A Unit is a product of ledger entries raised to exponents, such as kg*m/s**2.
// Its dimension, multiplier and offset are computed once at construction, so a
// Unit is an immutable value that is safe to share. The zero Unit is
// dimensionless.
//
// A Quantity pairs a magnitude, stored in SI base units, with the Unit it is
// displayed in. Conversions only ever reinterpret the base value through a
// different Unit.
//
// Units are equal when their dimensions are equal (they can be converted into
// each other); Identical compares the factors themselves. Offset units such as
// Celsius convert correctly only on their own, so combining them with other
// factors or raising them to a power fails with ErrOffsetComposition.
package unit
