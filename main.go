package main

import "github.com/frahmantamala/budget-manager/cmd"

func main() {
	cmd.Execute()
}
