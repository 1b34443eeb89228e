package main

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/twinfer/s2map-plugin/pkg/s2map"
)

func newShowCmd() *cobra.Command {
	var (
		output string
		where  string
	)

	cmd := &cobra.Command{
		Use:   "show <map-dir>",
		Short: "Decode a documentheader and print it",
		Long: `Decode the documentheader inside an extracted map directory and print
it as JSON or YAML.

The --where flag filters the attribs list with a boolean expression over
the fields key, locale and value:

  s2map show MyMap.sc2map --where 'key == "minimap" || locale == "enUS"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := s2map.OpenMapPackage(args[0])
			if err != nil {
				return err
			}
			header, err := pkg.ReadHeader()
			if err != nil {
				return err
			}

			if where != "" {
				header.Attribs, err = filterAttribs(header.Attribs, where)
				if err != nil {
					return err
				}
			}

			var rendered []byte
			switch output {
			case "json":
				rendered, err = json.MarshalIndent(header, "", "  ")
			case "yaml":
				rendered, err = yaml.Marshal(header)
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", output)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&where, "where", "", "boolean expression filtering the attribs list")
	return cmd
}

// filterAttribs keeps the attributes for which the expression evaluates to
// true. The expression sees each attribute as {key, locale, value}.
func filterAttribs(attribs []s2map.Attribute, src string) ([]s2map.Attribute, error) {
	env := map[string]any{"key": "", "locale": "", "value": ""}
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling --where expression: %w", err)
	}

	kept := make([]s2map.Attribute, 0, len(attribs))
	for _, attrib := range attribs {
		result, err := expr.Run(program, map[string]any{
			"key":    attrib.Key,
			"locale": attrib.Locale,
			"value":  attrib.Value,
		})
		if err != nil {
			return nil, fmt.Errorf("evaluating --where expression: %w", err)
		}
		if result.(bool) {
			kept = append(kept, attrib)
		}
	}
	return kept, nil
}
