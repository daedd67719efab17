package main

import (
	"github.com/NVIDIA/wfctl/pkg/cli"
)

func main() {
	cli.Execute()
}
