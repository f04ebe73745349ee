package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"vcardops/config"
	"vcardops/infras/otel/mocks"
	hotelMocks "vcardops/internal/domains/hotel/mocks"
	"vcardops/internal/domains/hotel/model"
	"vcardops/internal/domains/hotel/model/dto"
	"vcardops/internal/domains/hotel/service"
	cacheMocks "vcardops/shared/cache/mocks"
	gDto "vcardops/shared/dto"
)

func TestHotelService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := hotelMocks.NewMockHotel(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		want      []dto.Hotel
		wantErr   bool
	}{
		{
			name: "cache hit skips the repository",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "hotel:gets", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*[]dto.Hotel) = []dto.Hotel{{ID: 1, Name: "Cached Inn"}}

						return nil
					})
			},
			want: []dto.Hotel{{ID: 1, Name: "Cached Inn"}},
		},
		{
			name: "cache miss reads hotels sorted by name",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gDto.QueryParams{SortBy: "hotels.name", SortDir: gDto.SortDirAsc}, gDto.FilterGroup{}).
					Return([]model.Hotel{{ID: 2, Name: "Doe Hotel"}, {ID: 3, Name: "Seaside"}}, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).Return(nil).AnyTimes()
			},
			want: []dto.Hotel{{ID: 2, Name: "Doe Hotel"}, {ID: 3, Name: "Seaside"}},
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

			got, err := svc.GetAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
