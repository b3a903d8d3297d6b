package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkanduri1/fabric-transform/internal/core/db"
	"github.com/pkanduri1/fabric-transform/internal/core/store"
	"github.com/pkanduri1/fabric-transform/internal/templates"
	"github.com/pkanduri1/fabric-transform/internal/transform"
	"github.com/pkanduri1/fabric-transform/internal/types"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage stored mapping templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store a template in the database",
	RunE:  runTemplateSave,
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Print a stored template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	RunE:  runTemplateList,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <template-id>",
	Short: "Delete a stored template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSaveCmd, templateShowCmd, templateListCmd, templateDeleteCmd)
	templateSaveCmd.Flags().String("file", "", "template file (YAML)")
	templateSaveCmd.MarkFlagRequired("file")
}

// openStore connects to the configured database and loads named queries.
// Caller must Close the returned handle.
func openStore() (*store.Store, func(), error) {
	if dbURL == "" {
		return nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return store.New(queries), func() { database.Close() }, nil
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	tmpl, err := templates.LoadFile(file)
	if err != nil {
		return err
	}

	// Reject structurally broken templates before they reach the store;
	// degradable diagnostics are acceptable and reported at run time.
	if _, err := transform.Compile(tmpl); err != nil {
		return fmt.Errorf("template failed validation: %w", err)
	}

	s, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	id, err := s.Save(tmpl)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored template %q as %s\n", tmpl.Name, id)
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	id, err := types.ParseTemplateID(args[0])
	if err != nil {
		return fmt.Errorf("invalid template ID: %w", err)
	}

	s, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	tmpl, err := s.Get(id)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	s, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	infos, err := s.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", info.TemplateID, info.CreatedAt, info.Name)
	}
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	id, err := types.ParseTemplateID(args[0])
	if err != nil {
		return fmt.Errorf("invalid template ID: %w", err)
	}

	s, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := s.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted template %s\n", id)
	return nil
}
