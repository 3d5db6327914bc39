package main

import "github.com/clearview-aqi/dashboard/internal/cli"

func main() {
	cli.Execute()
}
