package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
)

func newStepsCmd() *cobra.Command {
	var docType string
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "List the extraction steps for a document type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSteps(cmd.OutOrStdout(), extraction.NewCatalog(), domain.DocumentType(docType))
		},
	}
	cmd.Flags().StringVarP(&docType, "type", "t", "", "document type; lists every known type when empty")
	return cmd
}

func printSteps(w io.Writer, catalog *extraction.Catalog, docType domain.DocumentType) error {
	types := domain.KnownDocumentTypes
	if docType != "" {
		types = []domain.DocumentType{docType}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range types {
		label := string(t)
		if !catalog.Has(t) {
			label += " (generic)"
		}
		fmt.Fprintf(tw, "%s\n", label)
		for _, s := range catalog.Steps(t) {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", s.Step, s.Name, s.Description)
		}
	}
	return tw.Flush()
}
