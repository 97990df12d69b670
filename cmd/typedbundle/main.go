// Command typedbundle inspects and edits typed bundle files and the
// configured preference store.
package main

import "github.com/mesh-intelligence/typedbundle/internal/cli"

func main() {
	cli.Execute()
}
