package main

import "github.com/git-big-picture/git-big-picture/cmd"

func main() {
	cmd.Run()
}
