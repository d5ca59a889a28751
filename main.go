package main

import "github.com/theirongolddev/reserva/cmd"

func main() {
	cmd.Execute()
}
