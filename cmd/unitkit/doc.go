// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the unitkit command line interface: converting
// quantities, inspecting parsed expressions, browsing the unit ledger and
// managing configuration.
package cmd
