// Command roster rates players, balances teams and applies post-match growth
// on YAML roster files without running the server.
package main

import "os"

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
