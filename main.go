package main

import "github.com/notargets/geoheat/cmd"

func main() {
	cmd.Execute()
}
