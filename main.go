package main

import "github.com/vanguardsec/vanguard-cli/cmd"

// execCmd is swapped out in tests.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
