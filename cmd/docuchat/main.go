package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "docuchat",
	Short:        "Chat with your uploaded documents from the terminal",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(chatCmd, uploadCmd, conversationsCmd, documentsCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
