package main

import "github.com/imreallyhimtho/sysutil-builder/cmd/sysutil-portable/cmd"

func main() {
	cmd.Execute()
}
