package main

import "github.com/jsphweid/genomedex/cmd"

func main() {
	cmd.Execute()
}
