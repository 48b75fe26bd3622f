package main

import "taskforge.app/taskforge/cmd"

func main() {
	cmd.Execute()
}
