package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/YangQing-Lin/templo-cli/cmd"
)

func main() {
	cmd.Execute()
}
