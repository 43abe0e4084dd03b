package main

import "github.com/theirongolddev/tiffin/cmd"

func main() {
	cmd.Execute()
}
