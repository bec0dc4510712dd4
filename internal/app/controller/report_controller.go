package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/app/service"
	apperrors "github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// DownloadOrdersReport streams the orders workbook. Admin only; the admin's
// own token also unlocks the upstream sheet.
// GET /api/v1/admin/reports/orders.xlsx
func (ctrl *ReportController) DownloadOrdersReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	body, name, err := ctrl.reportService.BuildOrdersWorkbook(c.Request.Context(), sess.Token)
	if err != nil {
		log.Error("Failed to build orders workbook", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, body)
}
