package codegen

import (
	"fmt"
	"strings"

	"github.com/govm-net/contract-sdk/abi"
)

// GenerateClient produces the typed call surface: a Registry()
// constructor rebuilding the signature registry, and a Client with one
// typed method per declared entrypoint. The client file is generated
// in both normal and library mode, so a contract can be imported by
// another purely for typed-call purposes.
func (g *Generator) GenerateClient() (string, error) {
	var sb strings.Builder

	sb.WriteString("// Code generated by sdk-gen. DO NOT EDIT.\n\n")
	sb.WriteString(fmt.Sprintf("package %s\n\n", g.PackageName))
	sb.WriteString("import (\n")
	sb.WriteString(fmt.Sprintf("\t\"%s/abi\"\n", sdkModule))
	sb.WriteString(fmt.Sprintf("\t\"%s/contract\"\n", sdkModule))
	sb.WriteString(fmt.Sprintf("\t\"%s/types\"\n", sdkModule))
	sb.WriteString(")\n\n")

	sb.WriteString(g.generateRegistry())
	sb.WriteString(g.generateClientType())

	for _, sig := range g.registry.Signatures() {
		sb.WriteString(g.generateClientMethod(sig))
	}

	return g.finish(sb.String())
}

func (g *Generator) generateRegistry() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Registry declares the entrypoints of %q.\n", g.registry.Contract()))
	sb.WriteString("func Registry() *abi.Registry {\n")
	sb.WriteString(fmt.Sprintf("\treg := abi.NewRegistry(%q)\n", g.registry.Contract()))
	for _, sig := range g.registry.Signatures() {
		sb.WriteString("\treg.MustRegister(abi.Signature{\n")
		sb.WriteString(fmt.Sprintf("\t\tName: %q,\n", sig.Name))
		if len(sig.Params) > 0 {
			sb.WriteString("\t\tParams: []abi.Param{\n")
			for _, p := range sig.Params {
				sb.WriteString(fmt.Sprintf("\t\t\t{Name: %q, Type: %s},\n", p.Name, typeConst(p.Type)))
			}
			sb.WriteString("\t\t},\n")
		}
		if sig.ReturnType() != abi.TypeUnit {
			sb.WriteString(fmt.Sprintf("\t\tReturns: %s,\n", typeConst(sig.ReturnType())))
		}
		if sig.Fallible {
			sb.WriteString("\t\tFallible: true,\n")
		}
		sb.WriteString("\t})\n")
	}
	sb.WriteString("\treturn reg\n")
	sb.WriteString("}\n\n")

	return sb.String()
}

func (g *Generator) generateClientType() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Client is the typed call surface of %q.\n", g.registry.Contract()))
	sb.WriteString("type Client struct {\n")
	sb.WriteString("\tinner *contract.Client\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// NewClient binds the client to a deployed instance.\n")
	sb.WriteString("func NewClient(caller types.Caller, id types.ContractID) *Client {\n")
	sb.WriteString("\treturn &Client{inner: contract.NewClient(caller, id, Registry())}\n")
	sb.WriteString("}\n\n")

	return sb.String()
}

func (g *Generator) generateClientMethod(sig abi.Signature) string {
	var sb strings.Builder

	params := make([]string, 0, len(sig.Params))
	callArgs := make([]string, 0, len(sig.Params)+1)
	callArgs = append(callArgs, fmt.Sprintf("%q", sig.Name))
	for _, p := range sig.Params {
		params = append(params, fmt.Sprintf("%s %s", argName(p.Name), goType(p.Type)))
		callArgs = append(callArgs, argName(p.Name))
	}

	method := exportName(sig.Name)
	hasReturn := sig.ReturnType() != abi.TypeUnit

	if hasReturn {
		ret := goType(sig.ReturnType())
		sb.WriteString(fmt.Sprintf("func (c *Client) %s(%s) (%s, error) {\n", method, strings.Join(params, ", "), ret))
		sb.WriteString(fmt.Sprintf("\treturn contract.CallTyped[%s](c.inner, %s)\n", ret, strings.Join(callArgs, ", ")))
		sb.WriteString("}\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("func (c *Client) %s(%s) error {\n", method, strings.Join(params, ", ")))
		sb.WriteString(fmt.Sprintf("\t_, err := c.inner.Call(%s)\n", strings.Join(callArgs, ", ")))
		sb.WriteString("\treturn err\n")
		sb.WriteString("}\n\n")
	}

	return sb.String()
}
