package main

import "github.com/electromart/storeapi/internal/cmd"

func main() {
	cmd.Execute()
}
