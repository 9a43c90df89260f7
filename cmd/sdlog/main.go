package main

import "github.com/skyforge/sdlog/cmd/sdlog/cmd"

func main() {
	cmd.Execute()
}
