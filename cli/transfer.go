package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stockledger/domain"
)

// decodeProducts accepts a JSON array, NDJSON or a single JSON object.
func decodeProducts(b []byte) ([]domain.Product, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var products []domain.Product
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &products); err != nil {
			return nil, err
		}
		return products, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func newImportCmd(sess *session) *cobra.Command {
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import products from JSON or NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			products, err := decodeProducts(b)
			if err != nil {
				return err
			}
			added, err := sess.importProducts(cmd.Context(), products)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d products\n", added, len(products))
			return err
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	return importCmd
}

func newExportCmd(sess *session) *cobra.Command {
	var exportFile string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export products to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			out := sess.inv.List()
			if out == nil {
				out = []domain.Product{}
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	return exportCmd
}
