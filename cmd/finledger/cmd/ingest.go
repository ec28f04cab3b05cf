package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/spf13/cobra"
)

var (
	ingestFile       string
	ingestSourceType string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Record normalized statement records from a JSON-lines file",
	Long: `Record normalized statement records from a JSON-lines file, one record
per line, in file order. Records already in the ledger are reported as
duplicates and a failing record does not stop the rest of the batch.

Use "-" as the file to read from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		sourceFile := "stdin"
		if ingestFile != "-" {
			f, err := os.Open(ingestFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", ingestFile, err)
			}
			defer f.Close()
			in = f
			sourceFile = filepath.Base(ingestFile)
		}

		records, err := readRecords(in)
		if err != nil {
			return err
		}

		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			report, err := svc.Ingest.Ingest(ctx, actorID, ingestSourceType, sourceFile, records)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d records failed", report.Failed, report.Total)
			}
			return nil
		})
	},
}

// readRecords decodes a stream of RecordInput values. Any malformed record
// rejects the whole file before anything is written.
func readRecords(r io.Reader) ([]domain.NormalizedRecord, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var records []domain.NormalizedRecord
	for i := 0; ; i++ {
		var in dto.RecordInput
		if err := dec.Decode(&in); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec, err := in.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "-", "JSON-lines file of records")
	ingestCmd.Flags().StringVar(&ingestSourceType, "source-type", "", "statement source, e.g. CAMS, ZERODHA, EPFO (required)")
	_ = ingestCmd.MarkFlagRequired("source-type")
}
