package main

import (
	"github.com/soundfield/trackboard/internal/cli"
)

func main() {
	cli.Execute()
}
