package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careops/as-service/internal/api/dto"
	"github.com/careops/as-service/internal/service"
	apperrors "github.com/careops/as-service/pkg/util"
)

// ImportsHandler manages bulk upload endpoints.
type ImportsHandler struct {
	imports *service.ImportService
}

// NewImportsHandler constructs handler.
func NewImportsHandler(importService *service.ImportService) *ImportsHandler {
	return &ImportsHandler{imports: importService}
}

// BulkImport POST /api/after-service/bulk.
func (h *ImportsHandler) BulkImport(c *fiber.Ctx) error {
	var req dto.BulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Rows) == 0 {
		return apperrors.NewValidationError("no rows to import", nil)
	}

	report, err := h.imports.ImportBatch(c.UserContext(), req.Rows)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// UploadWorkbook POST /api/after-service/upload (multipart .xlsx).
func (h *ImportsHandler) UploadWorkbook(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer file.Close()

	rows, err := service.ReadWorkbook(file)
	if err != nil {
		return err
	}

	report, err := h.imports.ImportBatch(c.UserContext(), rows)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

func reportResponse(report *service.ImportReport) dto.ImportReportResponse {
	return dto.ImportReportResponse{
		TotalRows:    report.TotalRows,
		SuccessCount: report.SuccessCount,
		FailureCount: report.FailureCount,
		Errors:       report.Errors,
	}
}
