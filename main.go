package main

import "github.com/peekknuf/rankstat/cmd"

func main() {
	cmd.Execute()
}
