// Command charterctl searches charter operator portals from the terminal.
package main

import "github.com/charter-search/charter-availability/internal/cli"

func main() {
	cli.Execute()
}
