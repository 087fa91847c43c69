// Package configfile applies config-file values onto a registered option
// schema. It is the file-backed value source for option resolution: it does
// not discover or merge files, it only decodes one file and sets each entry
// by option long name.
package configfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anvilbuild/anvil/pkg/option"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Apply loads the configuration file at path and applies its values onto the
// value bag. The format is determined by the file extension:
//   - .json for JSON
//   - .yaml or .yml for YAML
//   - .hcl for HCL
//   - .anvilrc will try both YAML and HCL formats
//
// Keys are option long names. A key that does not correspond to a registered
// option is an error, so config drift is caught at resolution time.
func Apply(ctx context.Context, values *option.Values, path string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading config file: %w", err)
	}

	entries, err := decode(data, path)
	if err != nil {
		return err
	}

	// Sorted application keeps error reporting deterministic.
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := values.SetValue(ctx, name, entries[name]); err != nil {
			return errors.Errorf("applying %s from %s: %w", name, path, err)
		}
	}
	return nil
}

func decode(data []byte, path string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".anvilrc" || filepath.Base(path) == ".anvilrc" {
		entries, yerr := decodeYAML(data)
		if yerr == nil {
			return entries, nil
		}
		entries, herr := decodeHCL(data, path)
		if herr == nil {
			return entries, nil
		}
		return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", path, herr)
	}

	switch ext {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".hcl":
		return decodeHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}
}

func decodeJSON(data []byte) (map[string]any, error) {
	var entries map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return entries, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return entries, nil
}

func decodeHCL(data []byte, filename string) (map[string]any, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	attrs, diags := hclFile.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	entries := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, errors.Errorf("evaluating %s: %s", name, diags.Error())
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, errors.Errorf("converting %s: %w", name, err)
		}
		entries[name] = goVal
	}
	return entries, nil
}

// ctyToGo converts an HCL value into the shapes the option coercion layer
// accepts: bool, int, float64, string, []any, map[string]any.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, errors.New("null value")
	}
	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if n, acc := bf.Int64(); acc == 0 {
			return int(n), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			goElem, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goElem)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			goElem, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = goElem
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported HCL value type %s", ty.FriendlyName())
	}
}
