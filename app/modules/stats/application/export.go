package statsservice

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
)

// exportLimit bounds the admin export to the most recent rounds.
const exportLimit = 1000

const exportSheet = "Rounds"

// ExportRounds renders completed round history as an XLSX workbook for the
// admin dashboard download.
func (s *StatsService) ExportRounds(ctx context.Context) ([]byte, error) {
	rounds, err := s.rounds.ListCompleted(ctx, nil, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close export workbook", attr.Error(err))
		}
	}()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Round", "Start", "End", "Tickets Sold", "Total Pool", "Winning Ticket"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, round := range rounds {
		if err := writeRoundRow(f, i+2, round); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRoundRow(f *excelize.File, row int, round *lotterydb.Round) error {
	winner := ""
	if round.WinnerTicket != nil {
		winner = fmt.Sprintf("%d", *round.WinnerTicket)
	}
	values := []any{
		round.Round,
		round.StartTime.Format("2006-01-02 15:04"),
		round.EndTime.Format("2006-01-02 15:04"),
		round.TicketsSold,
		round.TotalPool.StringFixed(2),
		winner,
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write round row: %w", err)
		}
	}
	return nil
}
