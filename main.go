package main

import "github.com/reliefops/duty-management/cmd"

func main() {
	cmd.Execute()
}
