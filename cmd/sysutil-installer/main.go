package main

import "github.com/imreallyhimtho/sysutil-builder/cmd/sysutil-installer/cmd"

func main() {
	cmd.Execute()
}
