// Stratum replays memory access traces against a multi-level cache hierarchy
// and reports where every access was served.
package main

import "github.com/sarchlab/stratum/stratum/cmd"

func main() {
	cmd.Execute()
}
