// retrodesk serves the retro desktop: the REST API for desktop items,
// images and messages, the static client, and an MCP interface to the
// desktop shell.
package main

import "retrodesk/cmd/retrodesk/cmd"

func main() {
	cmd.Execute()
}
