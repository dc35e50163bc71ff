// SPDX-License-Identifier: MPL-2.0

// Package dimension models physical dimensions as exponent vectors over the seven
// SI base dimensions.
//
// This package is a leaf dependency: it imports only the standard library.
package dimension
