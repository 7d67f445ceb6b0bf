//go:build !(js && wasm)

package main

import "github.com/voxelsplace/cbm/cmd"

func main() {
	cmd.Execute()
}
