package main

import "github.com/imreallyhimtho/sysutil-builder/cmd/sysutil-updater/cmd"

func main() {
	cmd.Execute()
}
