package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract-sdk/abi"
	"github.com/govm-net/contract-sdk/abi/codegen"
)

var (
	manifestPath string
	outputDir    string
	packageName  string
	clientOnly   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate wire surface code from a signature manifest",
	Long: `Generate the handler bindings and typed client for a contract.
Example: sdk-gen generate -m contract.yaml -o ./counter -p counter

With --client-only no host-facing exports are generated; the output is
usable purely as a typed dependency of another contract.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := abi.LoadManifest(manifestPath)
		if err != nil {
			return err
		}

		pkg := packageName
		if pkg == "" {
			pkg = registry.Contract()
		}

		gen := codegen.NewGenerator(registry, pkg)
		gen.ClientOnly = clientOnly

		files, err := gen.Files()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for name, content := range files {
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			slog.Info("generated", "file", path, "contract", registry.Contract())
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "signature manifest file (required)")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	generateCmd.Flags().StringVarP(&packageName, "package", "p", "", "package name (defaults to the contract name)")
	generateCmd.Flags().BoolVar(&clientOnly, "client-only", false, "library mode: generate the client surface only")
	generateCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(generateCmd)
}
