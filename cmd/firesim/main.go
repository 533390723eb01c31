// Command firesim runs the fire simulation headless.
package main

import "firesim/internal/cli"

func main() {
	cli.Execute()
}
