package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/admin"
	"github.com/xenking/shopaholics/internal/domain/catalog"
	"github.com/xenking/shopaholics/internal/domain/product"
)

func (c *cli) importCmd() *cobra.Command {
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append the products of a CSV file to the catalog",
		Long: `Append the products of a CSV file to the catalog.

The file needs "title" and "price" columns; gzip-compressed files are
accepted. Use "-" to read from standard input. Invalid rows are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open csv")
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var opts []catalog.ImportOption
			if skipExisting {
				opts = append(opts, catalog.WithSkipExisting())
			}
			summary, err := c.catalog.Import(cmd.Context(), in, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "drop rows whose id is already in the catalog")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export <products|orders>",
		Short:     "Write the catalog or the sample orders as CSV",
		Long:      `Write the catalog or the sample orders as CSV. Without -o the file gets the dated name used by the admin panel; "-o -" writes to standard output.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"products", "orders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				buf      bytes.Buffer
				filename string
				err      error
			)
			if args[0] == "products" {
				filename, err = c.catalog.Export(cmd.Context(), &buf)
			} else {
				err = csvio.Write(&buf, csvio.OrderRecords(admin.Orders()))
				filename = csvio.Filename(args[0], c.now())
			}
			if err != nil {
				return err
			}

			switch output {
			case "-":
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			case "":
				output = filename
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return errors.Wrap(err, "write export")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.catalog.List(cmd.Context(), category)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tDUPE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", p.ID, p.Title, p.Price.StringFixed(2), p.Category, p.IsDupeCandidate)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", product.AllCategories, "only list this category")
	return cmd
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the catalog with the seed products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.catalog.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog reset to seed data")
			return nil
		},
	}
}
