package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/refscan/internal/logging"
)

type CLI struct {
	logging.Flags `embed:""`

	Build  BuildCmd  `cmd:"" help:"Build a catalog from a VernacularParms XML file"`
	Verify VerifyCmd `cmd:"" help:"Validate a catalog file and check every book is recognized"`
}

func main() {
	envErr := godotenv.Load()

	var cli CLI
	kongCtx := kong.Parse(
		&cli,
		kong.Name("catalog"),
		kong.Description("Book catalog tool"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logger, err := cli.Init(os.Stderr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env file", "error", envErr)
	}

	if err := kongCtx.Run(logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
