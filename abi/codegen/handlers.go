package codegen

import (
	"fmt"
	"strings"

	"github.com/govm-net/contract-sdk/abi"
)

// GenerateHandlers produces the host-facing export bindings: one
// contract.Exports handler per declared signature, each decoding done
// by the dispatch table and the user function invoked with its declared
// Go types. The user implements one function per entrypoint, named by
// the exported form of the wire name.
func (g *Generator) GenerateHandlers() (string, error) {
	if g.ClientOnly {
		return "", fmt.Errorf("handler generation suppressed: registry %q is client-only", g.registry.Contract())
	}

	var sb strings.Builder

	sb.WriteString("// Code generated by sdk-gen. DO NOT EDIT.\n\n")
	sb.WriteString(fmt.Sprintf("package %s\n\n", g.PackageName))
	sb.WriteString("import (\n")
	sb.WriteString(fmt.Sprintf("\t\"%s/contract\"\n", sdkModule))
	if g.usesTypesPackage() {
		sb.WriteString(fmt.Sprintf("\t\"%s/types\"\n", sdkModule))
	}
	sb.WriteString(")\n\n")

	sb.WriteString(fmt.Sprintf("// RegisterExports binds the declared entrypoints of %q to their\n", g.registry.Contract()))
	sb.WriteString("// implementation functions and validates the table is complete.\n")
	sb.WriteString("func RegisterExports(exports *contract.Exports) error {\n")

	for _, sig := range g.registry.Signatures() {
		sb.WriteString(fmt.Sprintf("\tif err := exports.Handle(%q, func(args []any) (any, error) {\n", sig.Name))
		sb.WriteString(g.generateHandlerBody(sig))
		sb.WriteString("\t}); err != nil {\n")
		sb.WriteString("\t\treturn err\n")
		sb.WriteString("\t}\n")
	}

	sb.WriteString("\treturn exports.Validate()\n")
	sb.WriteString("}\n")

	return g.finish(sb.String())
}

func (g *Generator) generateHandlerBody(sig abi.Signature) string {
	var sb strings.Builder

	// Typed argument extraction in declared order.
	callArgs := make([]string, 0, len(sig.Params))
	for i, p := range sig.Params {
		callArgs = append(callArgs, fmt.Sprintf("args[%d].(%s)", i, goType(p.Type)))
	}
	call := fmt.Sprintf("%s(%s)", exportName(sig.Name), strings.Join(callArgs, ", "))

	hasReturn := sig.ReturnType() != abi.TypeUnit
	switch {
	case hasReturn && sig.Fallible:
		sb.WriteString(fmt.Sprintf("\t\tv, err := %s\n", call))
		sb.WriteString("\t\treturn v, err\n")
	case hasReturn:
		sb.WriteString(fmt.Sprintf("\t\treturn %s, nil\n", call))
	case sig.Fallible:
		sb.WriteString(fmt.Sprintf("\t\treturn nil, %s\n", call))
	default:
		sb.WriteString(fmt.Sprintf("\t\t%s\n", call))
		sb.WriteString("\t\treturn nil, nil\n")
	}
	return sb.String()
}
