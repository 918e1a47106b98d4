// SPDX-License-Identifier: MPL-2.0

package main

import cmd "runbook-cli/cmd/runbook"

func main() {
	cmd.Execute()
}
