package main

import "github.com/imreallyhimtho/sysutil-builder/cmd/sysutil-build/cmd"

func main() {
	cmd.Execute()
}
