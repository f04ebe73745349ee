package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vcardops/config"
	"vcardops/infras/otel/mocks"
	reservationMocks "vcardops/internal/domains/reservation/mocks"
	"vcardops/internal/domains/reservation/model"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/service"
	"vcardops/internal/domains/reservation/view"
	"vcardops/shared/cache"
	cacheMocks "vcardops/shared/cache/mocks"
	"vcardops/shared/constant"
	gDto "vcardops/shared/dto"
	"vcardops/shared/failure"
	"vcardops/shared/timezone"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Reservation.RecentWindowDays = 365
	cfg.Reservation.ExpiredAfterDays = 182

	return cfg
}

func reservationModel(id int64, checkIn time.Time, balance string, status string) model.Reservation {
	return model.Reservation{
		ID:               id,
		GuestName:        sql.NullString{String: "John Doe", Valid: true},
		HotelName:        sql.NullString{String: "Doe Hotel", Valid: true},
		CheckInDate:      sql.NullTime{Time: checkIn, Valid: true},
		RemainingBalance: decimal.NullDecimal{Decimal: decimal.RequireFromString(balance), Valid: true},
		Status:           sql.NullString{String: status, Valid: status != ""},
	}
}

// expectGeneration serves the cache generation lookup every read makes. It
// must be registered before the catch-all Get expectations.
func expectGeneration(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Get(gomock.Any(), "reservation:generation", gomock.Any()).Return(cache.Nil).AnyTimes()
}

func TestReservationService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, newConfig(), mockCache, mocks.NewOtel())
	expectGeneration(mockCache)

	checkIn := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		chargeable bool
		setupMock  func()
		wantIDs    []int64
		wantErr    bool
	}{
		{
			name: "lists newest first without a filter",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gDto.QueryParams{SortBy: "reservations.created_at", SortDir: gDto.SortDirDesc}, gDto.FilterGroup{}).
					Return([]model.Reservation{reservationModel(2, checkIn, "10", ""), reservationModel(1, checkIn, "0", "Active")}, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).Return(nil).AnyTimes()
			},
			wantIDs: []int64{2, 1},
		},
		{
			name:       "chargeable mode pre-filters on balance and recent check-in",
			chargeable: true,
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
						where, args := filter.GetWhereClause()

						assert.Contains(t, where, "reservations.remaining_balance > :remaining_balance")
						assert.Contains(t, where, "reservations.check_in_date >= :check_in_date")
						assert.Equal(t, constant.ChargeableThreshold, args["remaining_balance"])
						assert.Equal(t, timezone.Now().AddDate(0, 0, -365).Format(time.DateOnly), args["check_in_date"])

						return []model.Reservation{reservationModel(3, checkIn, "0.50", "Active")}, nil
					})
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantIDs: []int64{3},
		},
		{
			name: "cache hit",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*[]dto.Reservation) = []dto.Reservation{{ID: 9}}

						return nil
					})
			},
			wantIDs: []int64{9},
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := svc.GetAll(context.Background(), tt.chargeable)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)

			ids := make([]int64, len(got))
			for i, r := range got {
				ids[i] = r.ID
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestReservationService_GetAllCoalescesStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, newConfig(), mockCache, mocks.NewOtel())
	expectGeneration(mockCache)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Reservation{reservationModel(1, time.Now(), "1", "")}, nil)

	got, err := svc.GetAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Status)
	assert.Equal(t, constant.StatusUnknown, *got[0].Status)
}

func TestReservationService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, newConfig(), mockCache, mocks.NewOtel())
	expectGeneration(mockCache)

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "reservation:get:0:42", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel(42, time.Now(), "5", "Active"), nil)
				mockCache.EXPECT().Save(gomock.Any(), "reservation:get:0:42", gomock.Any(), 60).Return(nil).AnyTimes()
			},
		},
		{
			name: "not found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := svc.Get(context.Background(), 42)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(42), got.ID)
		})
	}
}

func TestReservationService_UpdateNotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, newConfig(), mockCache, mocks.NewOtel())

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		req       dto.UpdateNotesRequest
		setupMock func()
		wantCode  int
		wantMsg   string
	}{
		{
			name:      "missing card id",
			req:       dto.UpdateNotesRequest{Notes: "abc"},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   service.MessageCardIDRequired,
		},
		{
			name: "no row affected",
			req:  dto.UpdateNotesRequest{CardID: 7, Notes: "abc"},
			setupMock: func() {
				mockRepo.EXPECT().Update(gomock.Any(), map[string]any{"notes": "abc"}, gomock.Any()).Return(int64(0), nil)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  service.MessageCardNotFound,
		},
		{
			name: "repository error",
			req:  dto.UpdateNotesRequest{CardID: 7, Notes: "abc"},
			setupMock: func() {
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "updated",
			req:  dto.UpdateNotesRequest{CardID: 42, Notes: "abc"},
			setupMock: func() {
				mockRepo.EXPECT().Update(gomock.Any(), map[string]any{"notes": "abc"}, gomock.Any()).Return(int64(1), nil)
				mockCache.EXPECT().Save(gomock.Any(), "reservation:generation", gomock.Any(), 0).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := svc.UpdateNotes(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, dto.UpdateNotesResponse{
				Status:  constant.ResponseStatusSuccess,
				Message: service.MessageNotesUpdated,
				Notes:   "abc",
			}, got)
		})
	}
}

func TestReservationService_ViewAndSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockRepo, newConfig(), mockCache, mocks.NewOtel())
	expectGeneration(mockCache)

	now := timezone.Now()
	rows := []model.Reservation{
		reservationModel(1, now.AddDate(0, 0, -10), "100", "Active"),
		reservationModel(2, now.AddDate(0, -8, 0), "0.49", "Active"),
		reservationModel(3, now.AddDate(0, 0, -3), "25.25", "Pending"),
	}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rows, nil).Times(2)

	q := view.DefaultQuery()
	q.Filter.ChargeableOnly = true

	result, err := svc.View(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, int64(3), result.Rows[0].ID)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CardsToCharge)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.TotalAmountToCharge))
	assert.Equal(t, 1, summary.ExpiredCards)
	assert.Equal(t, 3, summary.TotalReservations)
}
