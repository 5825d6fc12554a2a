package main

import "github.com/ovaphlow/pitchfork/service-records-go/cmd/recordsctl/commands"

func main() {
	commands.Execute()
}
