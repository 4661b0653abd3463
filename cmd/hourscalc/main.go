package main

import "github.com/cmlabs-hris/hris-timekeeping-go/internal/cli"

func main() {
	cli.Execute()
}
