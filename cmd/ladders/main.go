// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	_ "github.com/tliron/commonlog/simple"
	"ladders/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
