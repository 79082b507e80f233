package main

import "github.com/ByLCY/folio/cmd"

func main() {
	cmd.Execute()
}
