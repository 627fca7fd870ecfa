package main

import (
	"context"
	"os"

	"starcleaner/internal/cli"
)

// Set with -ldflags "-X main.Version=... -X main.GitSHA=..."
var (
	Version = "dev"
	GitSHA  string
)

func main() {
	app := cli.NewApp(Version, GitSHA)
	os.Exit(app.Execute(context.Background(), os.Args[1:]))
}
