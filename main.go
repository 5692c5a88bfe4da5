package main

import "github.com/KaramelBytes/basketminer-cli/cmd"

func main() {
	cmd.Execute()
}
