package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/turbot/pipe-fittings/error_helpers"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Parse parses the HCL config, applies defaults and validates the result
func Parse(configBytes []byte, filename string) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(configBytes, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, WrapError("", error_helpers.HclDiagsToError("failed to parse config", diags))
	}
	// create empty eval context
	evalCtx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: make(map[string]function.Function),
	}

	target := &Config{}
	diags = gohcl.DecodeBody(file.Body, evalCtx, target)
	if diags.HasErrors() {
		return nil, WrapError("", error_helpers.HclDiagsToError("failed to decode config", diags))
	}

	target.SetDefaults()
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return target, nil
}
