package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureValidate(t *testing.T) {
	valid := Signature{
		Name:    "get_balance",
		Params:  []Param{{Name: "owner", Type: TypeAddress}},
		Returns: TypeU64,
	}
	assert.NoError(t, valid.Validate())

	// Empty returns normalizes to unit.
	assert.NoError(t, Signature{Name: "reset"}.Validate())
	assert.Equal(t, TypeUnit, Signature{Name: "reset"}.ReturnType())

	cases := []Signature{
		{},
		{Name: "f", Returns: "u128"},
		{Name: "f", Params: []Param{{Name: "", Type: TypeU64}}},
		{Name: "f", Params: []Param{{Name: "a", Type: "u128"}}},
		{Name: "f", Params: []Param{{Name: "a", Type: TypeU64}, {Name: "a", Type: TypeU64}}},
	}
	for _, sig := range cases {
		assert.Error(t, sig.Validate(), "signature %+v", sig)
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry("token")
	assert.Equal(t, "token", reg.Contract())

	require.NoError(t, reg.Register(Signature{Name: "mint", Params: []Param{{Name: "amount", Type: TypeU64}}, Fallible: true}))
	require.NoError(t, reg.Register(Signature{Name: "total_supply", Returns: TypeU64}))

	err := reg.Register(Signature{Name: "mint"})
	assert.Error(t, err)

	err = reg.Register(Signature{Name: "bad", Returns: "u128"})
	assert.Error(t, err)

	assert.Equal(t, 2, reg.Len())
}

func TestRegistrySignaturesKeepDeclarationOrder(t *testing.T) {
	reg := NewRegistry("token").
		MustRegister(Signature{Name: "zulu"}).
		MustRegister(Signature{Name: "alpha"}).
		MustRegister(Signature{Name: "mike"})

	sigs := reg.Signatures()
	require.Len(t, sigs, 3)
	assert.Equal(t, "zulu", sigs[0].Name)
	assert.Equal(t, "alpha", sigs[1].Name)
	assert.Equal(t, "mike", sigs[2].Name)

	sig, ok := reg.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, "alpha", sig.Name)
	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestMustRegisterPanics(t *testing.T) {
	reg := NewRegistry("token").MustRegister(Signature{Name: "mint"})
	assert.Panics(t, func() {
		reg.MustRegister(Signature{Name: "mint"})
	})
}

func TestParseManifest(t *testing.T) {
	data := []byte(`
contract: counter
entrypoints:
  - name: increment
    params:
      - name: amount
        type: u64
    returns: u64
    fallible: true
  - name: get_count
    returns: u64
  - name: reset
    fallible: true
`)
	reg, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, "counter", reg.Contract())
	require.Equal(t, 3, reg.Len())

	sig, ok := reg.Get("increment")
	require.True(t, ok)
	assert.True(t, sig.Fallible)
	assert.Equal(t, TypeU64, sig.Returns)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, "amount", sig.Params[0].Name)
	assert.Equal(t, TypeU64, sig.Params[0].Type)

	sig, ok = reg.Get("reset")
	require.True(t, ok)
	assert.Equal(t, TypeUnit, sig.ReturnType())
}

func TestParseManifestRejectsBadInput(t *testing.T) {
	_, err := ParseManifest([]byte("contract: [not a string"))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("entrypoints: []"))
	assert.Error(t, err, "manifest without a contract name")

	_, err = ParseManifest([]byte(`
contract: c
entrypoints:
  - name: f
  - name: f
`))
	assert.Error(t, err, "duplicate entrypoint")
}
