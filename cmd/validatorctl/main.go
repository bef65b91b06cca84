package main

import "gitlab.com/answer-validator.net/internal/cli"

func main() {
	cli.Execute()
}
