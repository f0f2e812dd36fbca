package main

import (
	"github.com/findy-network/findy-cloud-agent/cmd"
)

func main() {
	cmd.Execute()
}
