package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Export=MockExportService

import (
	"bytes"
	"context"
	"fmt"
	"vcardops/config"
	"vcardops/infras/otel"
	"vcardops/infras/s3"
	"vcardops/internal/domains/export/model/dto"
	resDto "vcardops/internal/domains/reservation/model/dto"
	resService "vcardops/internal/domains/reservation/service"
	"vcardops/internal/domains/reservation/view"
	"vcardops/shared/constant"
	"vcardops/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	summarySheet   = "Summary"
	fileNameLayout = "20060102-150405"
)

var columns = []string{
	"ID", "Guest", "Hotel", "Check-in", "Check-out", "Booking Amount",
	"Remaining Balance", "Currency", "Status", "Card Status", "Booking Source", "Notes",
}

type Export interface {
	Build(ctx context.Context, q view.Query) (dto.File, error)
	Upload(ctx context.Context, q view.Query) (dto.UploadResponse, error)
}

type serviceImpl struct {
	reservationSvc resService.Reservation
	uploader       s3.Uploader
	cfg            *config.Config
	otel           otel.Otel
}

func New(reservationSvc resService.Reservation, uploader s3.Uploader, cfg *config.Config, otel otel.Otel) Export {
	return &serviceImpl{
		reservationSvc: reservationSvc,
		uploader:       uploader,
		cfg:            cfg,
		otel:           otel,
	}
}

// Build renders the filtered and sorted reservations, unpaged, plus the
// summary tiles into an XLSX workbook.
func (s *serviceImpl) Build(ctx context.Context, q view.Query) (res dto.File, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportBuild")
	defer scope.End()
	defer scope.TraceIfError(err)

	var (
		rows    []resDto.Reservation
		summary resDto.Summary
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		all, err := s.reservationSvc.GetAll(gctx, false)
		rows = view.Apply(all, q.Filter, q.Sort)

		return err //nolint:wrapcheck
	})
	group.Go(func() error {
		var err error

		summary, err = s.reservationSvc.Summary(gctx)

		return err //nolint:wrapcheck
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load reservations for export")

		return res, fmt.Errorf("failed to load reservations for export: %w", err)
	}

	content, err := s.workbook(rows, summary)
	if err != nil {
		return res, err
	}

	return dto.File{
		Name:    fmt.Sprintf("reservations-%s-%s.xlsx", timezone.Now().Format(fileNameLayout), uuid.NewString()[:8]),
		Rows:    len(rows),
		Content: content,
	}, nil
}

func (s *serviceImpl) Upload(ctx context.Context, q view.Query) (res dto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportUpload")
	defer scope.End()
	defer scope.TraceIfError(err)

	file, err := s.Build(ctx, q)
	if err != nil {
		return res, err
	}

	url, err := s.uploader.Upload(ctx, s.cfg.Export.Directory, file.Name, constant.ContentTypeXLSX, file.Content)
	if err != nil {
		return res, fmt.Errorf("failed to upload export: %w", err)
	}

	return dto.UploadResponse{
		Status:   constant.ResponseStatusSuccess,
		Message:  dto.MessageExportUploaded,
		URL:      url,
		FileName: file.Name,
		Rows:     file.Rows,
	}, nil
}

func (s *serviceImpl) workbook(rows []resDto.Reservation, summary resDto.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close workbook")
		}
	}()

	sheet := s.cfg.Export.SheetName
	if sheet == "" {
		sheet = "Reservations"
	}

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row: %w", err)
		}

		values := rowValues(row)
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row.ID, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	tiles := [][]any{
		{"Cards to charge", summary.CardsToCharge},
		{"Total amount to charge", summary.TotalAmountToCharge.InexactFloat64()},
		{"Expired cards", summary.ExpiredCards},
		{"Total reservations", summary.TotalReservations},
	}
	for i, tile := range tiles {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &tile); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func rowValues(row resDto.Reservation) []any {
	return []any{
		row.ID,
		deref(row.GuestName),
		deref(row.Hotel),
		deref(row.CheckInDate),
		deref(row.CheckOutDate),
		money(row.BookingAmount),
		money(row.RemainingBalance),
		row.Currency,
		deref(row.Status),
		deref(row.CardStatus),
		deref(row.BookingSource),
		deref(row.Notes),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func money(value *decimal.Decimal) any {
	if value == nil {
		return ""
	}

	return value.InexactFloat64()
}
