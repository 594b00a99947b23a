// FILE: lixenwraith/cascade/cmd/cascade/main.go
package main

import "github.com/lixenwraith/cascade/internal/cli"

func main() {
	cli.Execute()
}
