// SPDX-License-Identifier: MPL-2.0

// Command unitkit parses, checks and converts physical quantities.
package main

import cmd "github.com/unitkit/unitkit/cmd/unitkit"

func main() {
	cmd.Execute()
}
