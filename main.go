package main

import "github.com/theirongolddev/welth/cmd"

func main() {
	cmd.Execute()
}
