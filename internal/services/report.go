package services

import (
	"context"
	"fmt"
	"time"

	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportService struct {
	achievementRepository repositories.AchievementRepositoryInterface
	logger                *zap.Logger
}

func NewReportService(achievementRepository repositories.AchievementRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{achievementRepository: achievementRepository, logger: logger}
}

var reportHeader = []string{
	"No", "Topic", "Type", "Value", "Organizer",
	"Employee", "Department", "Start Date", "End Date", "Valid Until", "Input By",
}

// ListAchievementReportRows returns the flat report dataset for the
// JSON variant of the export.
func (s *ReportService) ListAchievementReportRows(ctx context.Context, year int, departmentID string) ([]entities.AchievementWithEmployee, error) {
	achievements, err := s.achievementRepository.ListForReport(ctx, year, departmentID)
	if err != nil {
		s.logger.Error("failed to load report rows", zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	return achievements, nil
}

// GenerateAchievementReport renders the year's achievements as an XLSX
// workbook. An empty departmentID means all departments.
func (s *ReportService) GenerateAchievementReport(ctx context.Context, year int, departmentID string) ([]byte, string, error) {
	achievements, err := s.ListAchievementReportRows(ctx, year, departmentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Achievements"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", err
	}

	for i, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(reportHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
		return nil, "", err
	}

	for i := range achievements {
		row := i + 2
		a := &achievements[i]
		values := []interface{}{
			i + 1,
			a.Topic,
			achievementTypeLabel(a.Type),
			a.Value,
			strOrEmpty(a.Organizer),
			a.EmployeeName,
			strOrEmpty(a.DepartmentName),
			dateOrEmpty(a.DateStart),
			dateOrEmpty(a.DateEnd),
			dateOrEmpty(a.ValidUntil),
			strOrEmpty(a.InputByName),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return nil, "", err
	}
	if err := f.SetColWidth(sheet, "E", "G", 28); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("failed to render report workbook", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("achievements-%d.xlsx", year)
	if departmentID != "" {
		filename = fmt.Sprintf("achievements-%s-%d.xlsx", departmentID, year)
	}
	return buf.Bytes(), filename, nil
}

func achievementTypeLabel(t int) string {
	if t == entities.AchievementTypeCertification {
		return "Sertifikasi"
	}
	return "Learning Hours"
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
