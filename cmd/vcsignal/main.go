// Command vcsignal runs the VC portfolio signal aggregation bot.
package main

import "github.com/vintedhsp-byte/vc-signal-bot/cmd"

func main() {
	cmd.Execute()
}
