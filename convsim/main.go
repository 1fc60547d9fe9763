package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "github.com/viant/afsc/aws"
	_ "github.com/viant/afsc/gcp"
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
	cli "github.com/viant/convsim/cmd/convsim"
)

// Version is populated via -ldflags.
var Version = ""

func main() {
	_ = godotenv.Load()
	cli.SetVersion(Version)
	cli.RunWithCommands(os.Args[1:])
}
