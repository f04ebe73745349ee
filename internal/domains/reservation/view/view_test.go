package view_test

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/view"
	"vcardops/shared/constant"
)

func ptr[T any](v T) *T {
	return &v
}

func amount(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)

	return &d
}

func date(value string) *time.Time {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return &d
}

func row(id int64, checkIn, balance string) dto.Reservation {
	return dto.Reservation{
		ID:               id,
		CheckInDate:      ptr(checkIn),
		RemainingBalance: amount(balance),
		Currency:         constant.DefaultCurrency,
		Status:           ptr(constant.StatusActive),
	}
}

func ids(rows []dto.Reservation) []int64 {
	res := make([]int64, len(rows))
	for i, r := range rows {
		res[i] = r.ID
	}

	return res
}

func TestFiltered_ChargeableBoundary(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-03-01", "0.49"),
		row(2, "2024-03-01", "0.50"),
		row(3, "2024-03-01", "0"),
		{ID: 4, CheckInDate: ptr("2024-03-01")},
	}

	got := view.Filtered(rows, view.Filter{ChargeableOnly: true})

	assert.Equal(t, []int64{2}, ids(got))
	assert.False(t, view.IsChargeable(rows[0]))
	assert.True(t, view.IsChargeable(rows[1]))
}

func TestFiltered_DateRange(t *testing.T) {
	rows := []dto.Reservation{row(1, "2024-03-01", "100")}

	tests := []struct {
		name   string
		filter view.Filter
		want   []int64
	}{
		{
			name:   "range ending before check-in excludes",
			filter: view.Filter{From: date("2024-02-01"), To: date("2024-02-28")},
			want:   []int64{},
		},
		{
			name:   "range covering check-in includes",
			filter: view.Filter{From: date("2024-02-01"), To: date("2024-03-31")},
			want:   []int64{1},
		},
		{
			name:   "bounds are inclusive",
			filter: view.Filter{From: date("2024-03-01"), To: date("2024-03-01")},
			want:   []int64{1},
		},
		{
			name:   "only a lower bound",
			filter: view.Filter{From: date("2024-03-02")},
			want:   []int64{},
		},
		{
			name:   "only an upper bound",
			filter: view.Filter{To: date("2024-03-01")},
			want:   []int64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(view.Filtered(rows, tt.filter)))
		})
	}
}

func TestFiltered_DateRangeComparesCalendarDates(t *testing.T) {
	rows := []dto.Reservation{row(1, "2024-03-01T23:30:00Z", "100")}
	to := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []int64{1}, ids(view.Filtered(rows, view.Filter{To: &to})))
}

func TestFiltered_RejectsMissingCheckIn(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-03-01", "10"),
		{ID: 2, RemainingBalance: amount("10")},
		row(3, "", "10"),
		row(4, "not a date", "10"),
	}

	assert.Equal(t, []int64{1}, ids(view.Filtered(rows, view.Filter{})))
}

func TestFiltered_Search(t *testing.T) {
	johnDoe := row(1, "2024-03-01", "10")
	johnDoe.GuestName = ptr("John Doe")

	doeHotel := row(2, "2024-03-01", "10")
	doeHotel.Hotel = ptr("Doe Hotel")

	other := row(30, "2024-03-01", "10")
	other.GuestName = ptr("Jane Roe")
	other.Hotel = ptr("Seaside")

	rows := []dto.Reservation{johnDoe, doeHotel, other}

	assert.Equal(t, []int64{1, 2}, ids(view.Filtered(rows, view.Filter{Search: "doe"})))
	assert.Equal(t, []int64{1, 2}, ids(view.Filtered(rows, view.Filter{Search: "DOE"})))
	assert.Equal(t, []int64{30}, ids(view.Filtered(rows, view.Filter{Search: "30"})))
}

func TestFiltered_Status(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-03-01", "10"),
		row(2, "2024-03-01", "10"),
		row(3, "2024-03-01", "10"),
		row(4, "2024-03-01", "10"),
	}
	rows[1].Status = nil
	rows[2].Status = ptr("")
	rows[3].Status = ptr(constant.StatusUnknown)

	tests := []struct {
		name   string
		status string
		want   []int64
	}{
		{name: "all status", status: constant.StatusAll, want: []int64{1, 2, 3, 4}},
		{name: "unset", status: "", want: []int64{1, 2, 3, 4}},
		{name: "exact match", status: constant.StatusActive, want: []int64{1}},
		{name: "unknown matches null and empty", status: constant.StatusUnknown, want: []int64{2, 3, 4}},
		{name: "no match", status: "Pending", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(view.Filtered(rows, view.Filter{Status: tt.status})))
		})
	}
}

func TestOrdered_BookingSourceIgnoresBookedSuffix(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-03-01", "10"),
		row(2, "2024-03-01", "10"),
		row(3, "2024-03-01", "10"),
	}
	rows[0].BookingSource = ptr("Hotels.com")
	rows[1].BookingSource = ptr("Expedia (booked 3/1/24)")
	rows[2].BookingSource = ptr("Expedia (booked 1/1/23)")

	asc := view.Ordered(rows, view.Sort{Key: view.KeyBookingSource, Direction: view.Asc})
	assert.Equal(t, []int64{2, 3, 1}, ids(asc))

	desc := view.Ordered(rows, view.Sort{Key: view.KeyBookingSource, Direction: view.Desc})
	assert.Equal(t, []int64{1, 2, 3}, ids(desc))

	assert.Equal(t, []int64{1, 2, 3}, ids(rows), "input must not be reordered")
}

func TestOrdered_UnknownValuesSortLast(t *testing.T) {
	statuses := []*string{ptr("Pending"), nil, ptr("Active"), ptr(""), ptr(constant.StatusUnknown), ptr("Canceled")}

	rows := make([]dto.Reservation, len(statuses))
	for i, status := range statuses {
		rows[i] = row(int64(i+1), "2024-03-01", "10")
		rows[i].Status = status
	}

	tests := []struct {
		direction view.Direction
		want      []int64
	}{
		{direction: view.Asc, want: []int64{3, 6, 1, 2, 4, 5}},
		{direction: view.Desc, want: []int64{1, 6, 3, 2, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			got := view.Ordered(rows, view.Sort{Key: view.KeyStatus, Direction: tt.direction})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestOrdered_NumbersAndDates(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-03-10", "9.5"),
		row(2, "2024-01-02", "100"),
		{ID: 3, CheckInDate: ptr("2024-02-01")},
		row(4, "2023-12-31", "20"),
	}

	byBalance := view.Ordered(rows, view.Sort{Key: view.KeyRemainingBalance, Direction: view.Asc})
	assert.Equal(t, []int64{1, 4, 2, 3}, ids(byBalance))

	byCheckIn := view.Ordered(rows, view.Sort{Key: view.KeyCheckInDate, Direction: view.Desc})
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(byCheckIn))

	byID := view.Ordered(rows, view.Sort{Key: view.KeyID, Direction: view.Desc})
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(byID))
}

func TestSort_Toggle(t *testing.T) {
	s := view.DefaultQuery().Sort
	require.Equal(t, view.Sort{Key: view.KeyCheckInDate, Direction: view.Desc}, s)

	s = s.Toggle(view.KeyCheckInDate)
	assert.Equal(t, view.Asc, s.Direction)

	s = s.Toggle(view.KeyGuestName)
	assert.Equal(t, view.Sort{Key: view.KeyGuestName, Direction: view.Asc}, s)

	s = s.Toggle(view.KeyGuestName)
	assert.Equal(t, view.Desc, s.Direction)
}

func manyRows(n int) []dto.Reservation {
	rows := make([]dto.Reservation, n)
	for i := range n {
		rows[i] = row(int64(i+1), fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1), fmt.Sprintf("%d.%02d", i%7, i%100))
		if i%5 == 0 {
			rows[i].Status = nil
		}
	}

	return rows
}

func TestCompute_MatchesPaginatingPrecomputedView(t *testing.T) {
	rows := manyRows(95)
	q := view.Query{
		Filter:   view.Filter{ChargeableOnly: true, From: date("2024-02-01")},
		Sort:     view.Sort{Key: view.KeyRemainingBalance, Direction: view.Desc},
		PageSize: 10,
	}

	precomputed := view.Apply(rows, q.Filter, q.Sort)
	require.NotEmpty(t, precomputed)

	for page := 1; page <= view.Compute(rows, q).TotalPages; page++ {
		q.Page = page

		first := view.Compute(rows, q)
		second := view.Compute(rows, q)

		assert.Equal(t, first, second)
		assert.Equal(t, view.Paginate(precomputed, page, q.PageSize), first)
	}
}

func TestPaginate(t *testing.T) {
	rows := manyRows(25)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantPage  int
		wantIDs   []int64
		wantFrom  int
		wantTo    int
		wantPages int
	}{
		{name: "first page", page: 1, pageSize: 10, wantPage: 1, wantIDs: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantFrom: 1, wantTo: 10, wantPages: 3},
		{name: "last partial page", page: 3, pageSize: 10, wantPage: 3, wantIDs: []int64{21, 22, 23, 24, 25}, wantFrom: 21, wantTo: 25, wantPages: 3},
		{name: "page past the end is clamped", page: 9, pageSize: 10, wantPage: 3, wantIDs: []int64{21, 22, 23, 24, 25}, wantFrom: 21, wantTo: 25, wantPages: 3},
		{name: "page below one is clamped", page: 0, pageSize: 25, wantPage: 1, wantIDs: ids(rows), wantFrom: 1, wantTo: 25, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := view.Paginate(rows, tt.page, tt.pageSize)

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantIDs, ids(got.Rows))
			assert.Equal(t, tt.wantFrom, got.From)
			assert.Equal(t, tt.wantTo, got.To)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, 25, got.TotalItems)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := view.Paginate(nil, 4, 10)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 0, got.From)
	assert.Equal(t, 0, got.To)
	assert.NotNil(t, got.Rows)
	assert.Empty(t, got.Rows)
}

func TestCompute_ShrunkenFilterDoesNotStrandThePage(t *testing.T) {
	rows := manyRows(60)
	q := view.Query{Filter: view.Filter{Search: "1"}, Page: 6, PageSize: 10}

	got := view.Compute(rows, q)

	assert.NotEmpty(t, got.Rows)
	assert.Equal(t, got.TotalPages, got.Page)
}

func TestPaginate_PageWindow(t *testing.T) {
	rows := manyRows(100)
	gap := view.PageLink{Ellipsis: true}
	n := func(number int) view.PageLink { return view.PageLink{Number: number} }

	tests := []struct {
		page int
		want []view.PageLink
	}{
		{page: 1, want: []view.PageLink{n(1), n(2), n(3), gap, n(10)}},
		{page: 5, want: []view.PageLink{n(1), gap, n(3), n(4), n(5), n(6), n(7), gap, n(10)}},
		{page: 10, want: []view.PageLink{n(1), gap, n(8), n(9), n(10)}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			assert.Equal(t, tt.want, view.Paginate(rows, tt.page, 10).Pages)
		})
	}

	assert.Equal(t, []view.PageLink{n(1), n(2)}, view.Paginate(rows[:15], 1, 10).Pages)
	assert.Equal(t, []view.PageLink{n(1)}, view.Paginate(rows[:5], 1, 10).Pages)
}

func TestSummarize(t *testing.T) {
	rows := []dto.Reservation{
		row(1, "2024-08-01", "100"),
		row(2, "2024-01-15", "0.49"),
		row(3, "2024-07-01", "50.50"),
		row(4, "2024-08-10", "20"),
	}
	rows[2].Status = ptr("active")
	rows[3].Status = ptr("Pending")

	now := time.Date(2024, time.September, 1, 15, 0, 0, 0, time.UTC)
	got := view.Summarize(rows, now, 182)

	assert.Equal(t, 2, got.CardsToCharge)
	assert.True(t, decimal.RequireFromString("150.50").Equal(got.TotalAmountToCharge))
	assert.Equal(t, 1, got.ExpiredCards)
	assert.Equal(t, 4, got.TotalReservations)
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		constant.RequestParamChargeable: {"true"},
		constant.RequestParamFrom:       {"2024-02-01"},
		constant.RequestParamSearch:     {"doe"},
		constant.RequestParamStatus:     {constant.StatusUnknown},
		constant.RequestParamSortBy:     {string(view.KeyBookingSource)},
		constant.RequestParamPage:       {"3"},
		constant.RequestParamPageSize:   {"25"},
	}

	q, err := view.ParseQuery(values)
	require.NoError(t, err)

	assert.True(t, q.Filter.ChargeableOnly)
	assert.Equal(t, date("2024-02-01"), q.Filter.From)
	assert.Nil(t, q.Filter.To)
	assert.Equal(t, "doe", q.Filter.Search)
	assert.Equal(t, constant.StatusUnknown, q.Filter.Status)
	assert.Equal(t, view.Sort{Key: view.KeyBookingSource, Direction: view.Asc}, q.Sort)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PageSize)

	again, err := view.ParseQuery(q.Values())
	require.NoError(t, err)
	assert.Equal(t, q, again)
}

func TestParseQuery_Defaults(t *testing.T) {
	q, err := view.ParseQuery(url.Values{constant.RequestParamPageSize: {"7"}})
	require.NoError(t, err)
	assert.Equal(t, view.DefaultQuery(), q)

	_, err = view.ParseQuery(url.Values{constant.RequestParamTo: {"03/01/2024"}})
	assert.Error(t, err)
}
