package main

import "github.com/KaramelBytes/bmicsv/cmd"

func main() {
	cmd.Execute()
}
