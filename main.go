package main

import (
	"context"

	"github.com/spf13/cobra"

	"cmdbufgen/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
