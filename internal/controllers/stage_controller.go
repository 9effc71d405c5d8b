package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/services"
	"nbd-crr/pkg/utils"
)

type StageController struct {
	service services.StageServiceInterface
	logger  *zap.Logger
	now     func() time.Time
}

func NewStageController(service services.StageServiceInterface, logger *zap.Logger) *StageController {
	return &StageController{service: service, logger: logger, now: time.Now}
}

func wantsXLSX(ctx echo.Context) bool {
	return strings.EqualFold(ctx.QueryParam("format"), "xlsx")
}

// Pending возвращает обработчик для одного этапа: права на маршруты
// этапов разные, поэтому этап фиксируется при регистрации.
func (c *StageController) Pending(stage pipeline.Stage) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		view, err := c.service.Pending(ctx.Request().Context(), stage)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if wantsXLSX(ctx) {
			headers := []string{"Enquiry No", "Quotation No", "Company", "Contact", "Value", "Priority", "Days", "Status", "Planned"}
			rows := make([][]interface{}, 0, len(view.Pending))
			for _, t := range view.Pending {
				rows = append(rows, []interface{}{
					t.EnquiryNo, t.QuotationNumber, t.CompanyName, t.ContactPerson, t.ApproximateValue,
					t.Priority, t.DaysText, t.Status, t.PlannedDate,
				})
			}
			return c.respondWithXLSX(ctx, view.Title+" pending", headers, rows)
		}
		return utils.SuccessResponse(ctx, view, "OK", http.StatusOK)
	}
}

func (c *StageController) History(stage pipeline.Stage) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		hist, err := c.service.History(ctx.Request().Context(), stage)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if wantsXLSX(ctx) {
			rows := make([][]interface{}, 0, len(hist.Table.Rows))
			for _, r := range hist.Table.Rows {
				row := make([]interface{}, len(r))
				for i, v := range r {
					row[i] = v
				}
				rows = append(rows, row)
			}
			return c.respondWithXLSX(ctx, hist.Title+" history", hist.Table.Headers, rows)
		}
		return utils.SuccessResponse(ctx, hist, "OK", http.StatusOK)
	}
}

// Имя листа xlsx не длиннее 31 символа.
func xlsxSheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

func (c *StageController) respondWithXLSX(ctx echo.Context, title string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := xlsxSheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		_ = f.SetCellStyle(sheet, "A1", last, style)
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheet, "A", lastCol, 20)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", strings.ReplaceAll(strings.ToLower(title), " ", "_"), c.now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
