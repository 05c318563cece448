package main

import "github.com/chrisdamba/regionrank/cmd"

func main() {
	cmd.Execute()
}
