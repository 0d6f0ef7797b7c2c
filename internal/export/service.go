package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
)

const sheet = "Receipts"

var headers = []string{
	"Receipt ID",
	"Retailer",
	"Purchase Date",
	"Purchase Time",
	"Total",
	"Items",
	"Points",
	"Received At",
}

// Lister is the part of the receipts facade an export needs.
type Lister interface {
	ListScored(ctx context.Context) ([]receipts.ScoredReceipt, error)
}

// Service produces XLSX workbooks of every stored receipt and its points.
type Service struct {
	lister Lister
	logger *zap.Logger
}

func NewService(lister Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{lister: lister, logger: logger}
}

// ExportXLSX returns the workbook as bytes. Rows follow insertion order.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.lister.ListScored(ctx)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range recs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.ID)
		write(2, r.Receipt.Retailer)
		write(3, r.Receipt.PurchaseDate.String())
		write(4, r.Receipt.PurchaseTime.String())
		write(5, r.Receipt.Total) // kept as text, exactly as submitted
		write(6, len(r.Receipt.Items))
		write(7, r.Points)
		write(8, r.CreatedAt.UTC().Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 28) // retailer
	_ = f.SetColWidth(sheet, "C", "D", 14)
	_ = f.SetColWidth(sheet, "E", "G", 10)
	_ = f.SetColWidth(sheet, "H", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		zap.Int("rows", len(recs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func (s *Service) WriteFile(ctx context.Context, path string) error {
	b, err := s.ExportXLSX(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
