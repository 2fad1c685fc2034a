package main

import "github.com/imreallyhimtho/sysutil-builder/cmd/sysutil-packager/cmd"

func main() {
	cmd.Execute()
}
