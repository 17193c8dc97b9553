package service

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/finbooks/salesdesk/internal/costsheet/domain"
)

var exportHeader = []string{"CS Number", "Lead Number", "Customer", "Project", "Date", "Status", "Total Price"}

func (s *Service) ExportCSV(ctx context.Context, req domain.ExportRequest, w io.Writer) error {
	from, to := req.From, req.To
	if req.Preset != "" {
		var err error
		from, to, err = resolvePreset(req.Preset, s.clock.Now().UTC())
		if err != nil {
			return err
		}
	}

	sheets, err := s.repo.ListBetween(ctx, s.db, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, sheet := range sheets {
		leadNo, customer, project := "—", "—", "—"
		if lead, err := s.leadRepo.FindByID(ctx, s.db, sheet.LeadID); err == nil && lead != nil {
			leadNo, customer, project = lead.LeadNo, lead.CustomerName, lead.ProjectName
		}
		date := "—"
		if sheet.CostSheetDate != nil {
			date = sheet.CostSheetDate.Format("2006-01-02")
		}
		row := []string{
			sheet.CostSheetNo,
			leadNo,
			customer,
			project,
			date,
			string(sheet.Status),
			sheet.TotalEstimatedPrice.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// resolvePreset turns a named window into a [from, to] range relative to now.
// The financial year runs April 1 through March 31.
func resolvePreset(preset string, now time.Time) (*time.Time, *time.Time, error) {
	var from, to time.Time
	switch preset {
	case domain.PresetLastMonth:
		from = now.AddDate(0, -1, 0)
		to = now
	case domain.PresetLast3Months:
		from = now.AddDate(0, -3, 0)
		to = now
	case domain.PresetLast6Months:
		from = now.AddDate(0, -6, 0)
		to = now
	case domain.PresetLastYear:
		from = now.AddDate(-1, 0, 0)
		to = now
	case domain.PresetLastFinancialYear:
		year := now.Year()
		if now.Month() < time.April {
			year--
		}
		from = time.Date(year-1, time.April, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(year, time.March, 31, 23, 59, 59, 0, time.UTC)
	default:
		return nil, nil, domain.ErrInvalidPreset
	}
	return &from, &to, nil
}
