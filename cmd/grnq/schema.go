package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/groonga-go"
	"github.com/hugr-lab/groonga-go/catalog"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create or dump table definitions",
		Long: `A schema file declares tables and columns in TOML:

  [[table]]
  name     = "Site"
  flags    = "TABLE_HASH_KEY"
  key_type = "ShortText"

  [[table.column]]
  name = "title"
  type = "ShortText"

plan prints the commands apply would send; tables already on the server
are skipped.`,
	}
	cmd.AddCommand(
		newSchemaPlanCmd(a),
		newSchemaApplyCmd(a),
		newSchemaDumpCmd(a),
	)
	return cmd
}

func newSchemaPlanCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the commands needed to create the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.bindSchema(cmd, file)
			if err != nil {
				return err
			}
			defer db.Client().Close()

			plan, err := db.Plan(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range plan {
				if _, err := fmt.Fprintln(out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schema file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSchemaApplyCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the missing tables and columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.bindSchema(cmd, file)
			if err != nil {
				return err
			}
			defer db.Client().Close()

			if err := db.CreateAll(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema %s applied\n", db.Base().Name())
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schema file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSchemaDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the live database schema as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			base, err := catalog.Introspect(cmd.Context(), client)
			if err != nil {
				return err
			}
			return catalog.WriteSchema(cmd.OutOrStdout(), base)
		},
	}
}

func (a *app) bindSchema(cmd *cobra.Command, file string) (*groonga.DB, error) {
	if file == "" {
		return nil, errors.New("--file is required")
	}
	base, err := catalog.LoadSchemaFile(file)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	client, err := a.connect(cmd)
	if err != nil {
		return nil, err
	}
	db, err := groonga.Bind(cmd.Context(), client, base)
	if err != nil {
		client.Close()
		return nil, err
	}
	return db, nil
}
