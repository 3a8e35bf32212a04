// README: Entry point; the command tree lives in internal/cli.
package main

import "ease/internal/cli"

func main() {
	cli.Execute()
}
