// Package inspect verifies a compiled contract module against its
// declared signature registry. The generated wrapper and call-site
// cannot drift from each other, but a stale or mis-built wasm artifact
// can still disagree with both; this check fails the deployment before
// any call does.
package inspect

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero"

	"github.com/govm-net/contract-sdk/abi"
)

// VerifyExports compiles the wasm module and checks that every declared
// entrypoint is present in its export table. Extra exports are allowed;
// a missing one is an error naming all absences.
func VerifyExports(ctx context.Context, wasmCode []byte, registry *abi.Registry) error {
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, wasmCode)
	if err != nil {
		return fmt.Errorf("failed to compile module: %w", err)
	}
	defer compiled.Close(ctx)

	exported := compiled.ExportedFunctions()

	var missing []string
	for _, sig := range registry.Signatures() {
		if _, ok := exported[sig.Name]; !ok {
			missing = append(missing, sig.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("contract %q: declared entrypoints missing from module exports: %s",
			registry.Contract(), strings.Join(missing, ", "))
	}
	return nil
}

// VerifyFile is VerifyExports over a wasm file on disk.
func VerifyFile(ctx context.Context, path string, registry *abi.Registry) error {
	wasmCode, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read wasm file: %w", err)
	}
	return VerifyExports(ctx, wasmCode, registry)
}

// ListExports compiles the module and returns its exported function
// names, sorted. Tooling uses it for diagnostics.
func ListExports(ctx context.Context, wasmCode []byte) ([]string, error) {
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, wasmCode)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}
	defer compiled.Close(ctx)

	names := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
