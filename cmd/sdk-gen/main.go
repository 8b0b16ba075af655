package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sdk-gen",
	Short: "Contract SDK code generation and verification tool",
	Long: `sdk-gen turns a contract's signature manifest into its generated
wire surface: the host-facing handler bindings and the typed client.
It can also verify a compiled wasm artifact against the manifest.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
