// SPDX-License-Identifier: MIT
package main

import "github.com/skaphos/pendector/cmd/pendector"

var execute = pendector.Execute

func main() {
	execute()
}
