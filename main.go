// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/metarule/cmd/metarule"

func main() {
	cmd.Execute()
}
