// Package codegen generates the two halves of an entrypoint's wire
// surface from one signature registry: the host-facing handler file
// (entrypoint wrapper) and the typed client file (call-site). Because
// both files come from the same registry, the encoding a generated
// call-site produces is always decodable by the generated wrapper.
package codegen

import (
	"fmt"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/govm-net/contract-sdk/abi"
)

const sdkModule = "github.com/govm-net/contract-sdk"

// Generator produces Go source from a signature registry.
type Generator struct {
	registry *abi.Registry

	// PackageName of the generated files.
	PackageName string

	// ClientOnly suppresses the handler file: the contract is consumed
	// purely as a dependency and generates no host-facing exports.
	ClientOnly bool
}

var EnableFormatAfterGenerate = true

// NewGenerator creates a generator over the given registry.
func NewGenerator(registry *abi.Registry, packageName string) *Generator {
	return &Generator{
		registry:    registry,
		PackageName: packageName,
	}
}

// Files returns the generated sources keyed by file name. Library mode
// yields only the client file.
func (g *Generator) Files() (map[string]string, error) {
	out := make(map[string]string)

	client, err := g.GenerateClient()
	if err != nil {
		return nil, err
	}
	out["client.go"] = client

	if !g.ClientOnly {
		handlers, err := g.GenerateHandlers()
		if err != nil {
			return nil, err
		}
		out["handlers.go"] = handlers
	}
	return out, nil
}

// format formats the generated code using gofmt
func format(code string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "sdk-gen-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpFile := filepath.Join(tmpDir, "generated.go")
	if err := os.WriteFile(tmpFile, []byte(code), 0644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	cmd := exec.Command("gofmt", "-s", "-w", tmpFile)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("gofmt failed: %s: %w", string(output), err)
	}

	formattedCode, err := os.ReadFile(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to read formatted code: %w", err)
	}

	return string(formattedCode), nil
}

func (g *Generator) finish(code string) (string, error) {
	if !EnableFormatAfterGenerate {
		return code, nil
	}
	formatted, err := format(code)
	if err != nil {
		return "", fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}

// exportName turns a wire name like "get_count" into an exported Go
// identifier like "GetCount".
func exportName(name string) string {
	titler := cases.Title(language.English)
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(titler.String(part))
	}
	return sb.String()
}

// argName turns a wire name into a local Go identifier.
func argName(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	titler := cases.Title(language.English)
	for i, part := range parts {
		if i == 0 {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(titler.String(part))
	}
	out := sb.String()
	if token.IsKeyword(out) {
		out += "Arg"
	}
	return out
}

// goType maps a wire type to its Go representation.
func goType(t abi.Type) string {
	switch t {
	case abi.TypeBool:
		return "bool"
	case abi.TypeU64:
		return "uint64"
	case abi.TypeI64:
		return "int64"
	case abi.TypeString:
		return "string"
	case abi.TypeBytes:
		return "[]byte"
	case abi.TypeAddress:
		return "types.Address"
	case abi.TypeContract:
		return "types.ContractID"
	default:
		return ""
	}
}

// typeConst maps a wire type to the abi package constant naming it.
func typeConst(t abi.Type) string {
	switch t {
	case abi.TypeUnit, "":
		return "abi.TypeUnit"
	case abi.TypeBool:
		return "abi.TypeBool"
	case abi.TypeU64:
		return "abi.TypeU64"
	case abi.TypeI64:
		return "abi.TypeI64"
	case abi.TypeString:
		return "abi.TypeString"
	case abi.TypeBytes:
		return "abi.TypeBytes"
	case abi.TypeAddress:
		return "abi.TypeAddress"
	case abi.TypeContract:
		return "abi.TypeContract"
	default:
		return fmt.Sprintf("abi.Type(%q)", string(t))
	}
}

// usesTypesPackage reports whether any signature mentions a wire type
// whose Go form lives in the types package.
func (g *Generator) usesTypesPackage() bool {
	for _, sig := range g.registry.Signatures() {
		if sig.ReturnType() == abi.TypeAddress || sig.ReturnType() == abi.TypeContract {
			return true
		}
		for _, p := range sig.Params {
			if p.Type == abi.TypeAddress || p.Type == abi.TypeContract {
				return true
			}
		}
	}
	return false
}
