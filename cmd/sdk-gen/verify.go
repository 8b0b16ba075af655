package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract-sdk/abi"
	"github.com/govm-net/contract-sdk/inspect"
)

var (
	verifyManifest string
	wasmPath       string
	listAll        bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a compiled wasm module against its manifest",
	Long: `Verify that every entrypoint declared in the manifest is exported by
the compiled module. Example: sdk-gen verify -m contract.yaml -w contract.wasm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		registry, err := abi.LoadManifest(verifyManifest)
		if err != nil {
			return err
		}

		if listAll {
			wasmCode, err := os.ReadFile(wasmPath)
			if err != nil {
				return err
			}
			names, err := inspect.ListExports(ctx, wasmCode)
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
		}

		if err := inspect.VerifyFile(ctx, wasmPath, registry); err != nil {
			return err
		}
		slog.Info("module exports match manifest", "contract", registry.Contract(), "wasm", wasmPath)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyManifest, "manifest", "m", "", "signature manifest file (required)")
	verifyCmd.Flags().StringVarP(&wasmPath, "wasm", "w", "", "compiled wasm module (required)")
	verifyCmd.Flags().BoolVarP(&listAll, "list", "l", false, "also list the module's exported functions")
	verifyCmd.MarkFlagRequired("manifest")
	verifyCmd.MarkFlagRequired("wasm")
	rootCmd.AddCommand(verifyCmd)
}
