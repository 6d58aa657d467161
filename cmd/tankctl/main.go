package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/mcoot/tankbattle/internal/cli"
)

func main() {
	cli.Execute()
}
