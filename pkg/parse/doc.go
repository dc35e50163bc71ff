// SPDX-License-Identifier: MPL-2.0

// Package parse turns unit and quantity strings such as "km/h",
// "9.81 m/s**2" or "kilometer per hour" into unit.Unit and unit.Quantity
// values.
//
// The grammar is a small recursive-descent language:
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := base ('^' factor)?
//	base       := '(' expression ')' | number | symbol
//
// Before parsing, the input is tokenized and fixed up: "**" is read as "^",
// the word "per" as "/", and adjacent operands such as "1 km" or "2(m)" get
// an implicit "*". Normalize returns that fixed form.
//
// Every failure is reported as a *ParseError carrying the byte offset of the
// offending token in the original input.
package parse
