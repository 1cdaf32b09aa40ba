package main

import "github.com/kamal-hamza/stegshare-cli/cmd"

func main() {
	cmd.Execute()
}
