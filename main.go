package main

import "github.com/KaramelBytes/nestor/cmd"

func main() {
	cmd.Execute()
}
