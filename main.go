package main

import "github.com/talentra/hiring-management/cmd"

func main() {
	cmd.Execute()
}
