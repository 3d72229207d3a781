package main

import "folder2pdf/cmd"

func main() {
	cmd.Execute()
}
