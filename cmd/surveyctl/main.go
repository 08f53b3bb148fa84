package main

import (
	"os"

	"github.com/survey-platform/surveyctl/cmd/cli"
)

func main() {
	os.Exit(cli.Execute())
}
