package hcl_adapter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/fsutil"
	"github.com/vk/varflow/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges them into one
// root scope.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	bodies := make([]*hclsyntax.Body, 0, len(hclFiles))
	for _, path := range hclFiles {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		body, ok := f.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("unsupported HCL syntax in %s", path)
		}
		bodies = append(bodies, body)
	}

	return l.decode(ctx, bodies)
}

// LoadSource parses a single in-memory HCL document. It is used by tests
// and tooling that do not read from disk.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, []*hclsyntax.Body{f.Body.(*hclsyntax.Body)})
}

// decode builds the model from the bodies of all files, which together form
// the root scope.
func (l *Loader) decode(ctx context.Context, bodies []*hclsyntax.Body) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	root, diags := l.decodeScope(ctx, "", bodies, bodies[0].MissingItemRange())
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode configuration: %w", diags)
	}

	model := &config.Model{Root: root}
	var inputs, vars, scopes int
	_ = root.Walk(func(_ []string, def *config.ScopeDef) error {
		inputs += len(def.Inputs)
		vars += len(def.Vars)
		scopes++
		return nil
	})
	logger.Debug("HCL loading complete.", "scopes", scopes, "inputs", inputs, "variables", vars)
	return model, nil
}

func (l *Loader) decodeScope(ctx context.Context, name string, bodies []*hclsyntax.Body, defRange hcl.Range) (*config.ScopeDef, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx).With("scope", name)

	var diags hcl.Diagnostics
	var blocks []*hclsyntax.Block
	var headers hcl.Blocks
	var attrs []*hclsyntax.Attribute
	seen := make(map[string]*hclsyntax.Attribute)

	for _, body := range bodies {
		for _, block := range body.Blocks {
			switch {
			case block.Type != "input" && block.Type != "scope":
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  fmt.Sprintf("Unexpected %q block", block.Type),
					Detail:   `Only "input" and "scope" blocks are allowed here.`,
					Subject:  block.TypeRange.Ptr(),
				})
			case len(block.Labels) != 1:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  fmt.Sprintf("Invalid %q block", block.Type),
					Detail:   fmt.Sprintf("A %q block takes exactly one label, its name.", block.Type),
					Subject:  block.DefRange().Ptr(),
				})
			default:
				blocks = append(blocks, block)
				headers = append(headers, block.AsHCLBlock())
			}
		}
		for _, attr := range sortedAttributes(body.Attributes) {
			if first, ok := seen[attr.Name]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate variable",
					Detail:   fmt.Sprintf("Variable %q was already defined at %s.", attr.Name, first.SrcRange),
					Subject:  attr.NameRange.Ptr(),
				})
				continue
			}
			seen[attr.Name] = attr
			attrs = append(attrs, attr)
		}
	}
	diags = append(diags, hclutil.FindDuplicateLabels(headers, "input")...)
	diags = append(diags, hclutil.FindDuplicateLabels(headers, "scope")...)

	def := &config.ScopeDef{Name: name, DefRange: defRange}

	for _, block := range blocks {
		label := block.Labels[0]
		if !hclsyntax.ValidIdentifier(label) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid name",
				Detail:   fmt.Sprintf("%q is not a valid identifier.", label),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}

		switch block.Type {
		case "input":
			in, inDiags := l.decodeInput(label, block)
			diags = append(diags, inDiags...)
			if in != nil {
				def.Inputs = append(def.Inputs, in)
			}
		case "scope":
			child, childDiags := l.decodeScope(ctx, label, []*hclsyntax.Body{block.Body}, block.DefRange())
			diags = append(diags, childDiags...)
			def.Children = append(def.Children, child)
		}
	}

	for _, attr := range attrs {
		def.Vars = append(def.Vars, &config.VarDef{
			Name:     attr.Name,
			Expr:     attr.Expr,
			DefRange: attr.SrcRange,
		})
	}

	logger.Debug("Decoded scope.", "inputs", len(def.Inputs), "variables", len(def.Vars), "children", len(def.Children))
	return def, diags
}

func (l *Loader) decodeInput(name string, block *hclsyntax.Block) (*config.InputDef, hcl.Diagnostics) {
	var raw inputBlock
	diags := gohcl.DecodeBody(block.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, diags
	}

	in := &config.InputDef{
		Name:     name,
		Type:     cty.DynamicPseudoType,
		DefRange: block.DefRange(),
	}
	if raw.Description != nil {
		in.Description = *raw.Description
	}

	if hclutil.IsExprDefined(raw.Type) {
		ty, tyDiags := typeexpr.TypeConstraint(raw.Type)
		diags = append(diags, tyDiags...)
		if tyDiags.HasErrors() {
			return nil, diags
		}
		in.Type = ty
	}

	if hclutil.IsExprDefined(raw.Default) {
		val, valDiags := raw.Default.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return nil, diags
		}
		if !val.IsNull() {
			in.Default = &val
		}
	}
	return in, diags
}

// sortedAttributes returns attrs in source order.
func sortedAttributes(attrs hclsyntax.Attributes) []*hclsyntax.Attribute {
	out := make([]*hclsyntax.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *hclsyntax.Attribute) int {
		return a.SrcRange.Start.Byte - b.SrcRange.Start.Byte
	})
	return out
}
