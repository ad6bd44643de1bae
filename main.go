package main

import "stagehand/cmd"

func main() {
	cmd.Execute()
}
