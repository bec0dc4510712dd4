package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// AdminAPI is the subset of the upstream client the report uses.
type AdminAPI interface {
	ListAdminOrders(ctx context.Context, token string) ([]storeapi.AdminOrder, error)
}

// ReportUploader persists a generated report and returns where it lives.
type ReportUploader interface {
	Upload(ctx context.Context, name, contentType string, body []byte) (string, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService builds the orders workbook: one sheet of settled orders seen
// by this gateway, plus the upstream admin listing when an admin token is
// available.
type ReportService interface {
	// BuildOrdersWorkbook renders the workbook. adminToken may be empty, in
	// which case only locally recorded orders are included.
	BuildOrdersWorkbook(ctx context.Context, adminToken string) ([]byte, string, error)

	// Export builds the workbook and hands it to the uploader. Used by the
	// nightly job.
	Export(ctx context.Context, adminToken string) (string, error)
}

type reportService struct {
	records  repository.OrderRecordRepository
	api      AdminAPI
	uploader ReportUploader
}

// NewReportService builds the report generator. uploader may be nil when no
// object storage is configured; Export then fails and the HTTP download is
// the only way out.
func NewReportService(records repository.OrderRecordRepository, api AdminAPI, uploader ReportUploader) ReportService {
	return &reportService{
		records:  records,
		api:      api,
		uploader: uploader,
	}
}

func (s *reportService) BuildOrdersWorkbook(ctx context.Context, adminToken string) ([]byte, string, error) {
	records, err := s.records.FindAll()
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const localSheet = "Settled Orders"
	f.SetSheetName("Sheet1", localSheet)

	headers := []string{"Order ID", "User ID", "Product", "Qty", "Gross Amount", "Payment Type", "Status", "Settled At"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(localSheet, cell, h)
	}
	for row, r := range records {
		values := []interface{}{
			r.OrderID, r.UserID, r.ProductName, r.Quantity,
			r.GrossAmount, r.PaymentType, r.Status,
			r.UpdatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(localSheet, cell, v)
		}
	}

	if adminToken != "" {
		if err := s.addUpstreamSheet(ctx, f, adminToken); err != nil {
			// The local sheet is still worth having; note the gap and move on.
			logger.Warn("Skipping upstream orders sheet", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	logger.Info("Orders workbook built", map[string]interface{}{
		"file":    name,
		"records": len(records),
	})
	return buf.Bytes(), name, nil
}

func (s *reportService) addUpstreamSheet(ctx context.Context, f *excelize.File, adminToken string) error {
	orders, err := s.api.ListAdminOrders(ctx, adminToken)
	if err != nil {
		return err
	}

	const sheet = "Upstream Orders"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Order ID", "Product ID", "Qty", "Gross Amount", "Status", "Created At"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		values := []interface{}{o.ID, o.OrderID, o.ProductID, o.Quantity, o.GrossAmount, o.Status, o.CreatedAt}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

func (s *reportService) Export(ctx context.Context, adminToken string) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("no report storage configured")
	}

	body, name, err := s.BuildOrdersWorkbook(ctx, adminToken)
	if err != nil {
		return "", err
	}

	url, err := s.uploader.Upload(ctx, name, xlsxContentType, body)
	if err != nil {
		logger.Error("Failed to upload orders workbook", err, map[string]interface{}{
			"file": name,
		})
		return "", err
	}

	logger.Info("Orders workbook exported", map[string]interface{}{
		"file": name,
		"url":  url,
	})
	return url, nil
}
