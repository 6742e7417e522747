package main

import (
	"os"

	"miniblog/service"
)

var exit = os.Exit

func main() {
	exit(service.Execute())
}
