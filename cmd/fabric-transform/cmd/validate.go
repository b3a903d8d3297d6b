package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkanduri1/fabric-transform/internal/templates"
	"github.com/pkanduri1/fabric-transform/internal/transform"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a mapping template",
	Long:  `Decodes and compiles a template without processing records. Structural defects fail validation; degradable defects (empty composites, unparseable predicates) are printed as diagnostics.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("template", "", "mapping template file (YAML)")
	validateCmd.MarkFlagRequired("template")
}

func runValidate(cmd *cobra.Command, args []string) error {
	templatePath, _ := cmd.Flags().GetString("template")

	tmpl, err := templates.LoadFile(templatePath)
	if err != nil {
		return err
	}
	compiled, err := transform.Compile(tmpl)
	if err != nil {
		return err
	}

	for _, d := range compiled.Diagnostics {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", d)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "template %q: %d mappings, %d diagnostics\n",
		compiled.Name, len(compiled.Mappings), len(compiled.Diagnostics))
	return nil
}
