package main

import "github.com/theirongolddev/debtgauge/cmd"

func main() {
	cmd.Execute()
}
