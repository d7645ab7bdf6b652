package main

import "github.com/enviohq/envio-backend/cmd"

func main() {
	cmd.Execute()
}
