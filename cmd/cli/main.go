package main

import (
	"github.com/mchmarny/phredq/pkg/cli"
)

func main() {
	cli.Execute()
}
