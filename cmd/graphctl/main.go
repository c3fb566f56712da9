// Command graphctl loads relationship sources into a CSR graph store and
// runs Pregel vertex-centric computations over it.
package main

import "github.com/csrgraph/graphctl/cmd/graphctl/cmd"

func main() {
	cmd.Execute()
}
