package main

import "github.com/workmatechiho-source/shotcrete/cmd"

func main() {
	cmd.Execute()
}
