package main

import "luxdeck/cmd"

func main() {
	cmd.Execute()
}
