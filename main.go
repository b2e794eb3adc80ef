package main

import "github.com/uclaacm/gzip/cmd"

func main() {
	cmd.Execute()
}
