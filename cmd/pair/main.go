package main

import (
	"github.com/greatexpectationslabs/cooper-pair/internal/cli"
	"github.com/greatexpectationslabs/cooper-pair/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger()
}

func main() {
	cli.Execute()
}
