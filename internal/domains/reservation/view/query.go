package view

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
)

// ParseQuery reads a Query from URL parameters, starting from DefaultQuery.
// Unknown page sizes fall back to the default; malformed dates are rejected.
func ParseQuery(values url.Values) (Query, error) {
	q := DefaultQuery()

	if chargeable, err := strconv.ParseBool(values.Get(constant.RequestParamChargeable)); err == nil {
		q.Filter.ChargeableOnly = chargeable
	}

	from, err := parseDateParam(values.Get(constant.RequestParamFrom))
	if err != nil {
		return q, err
	}

	to, err := parseDateParam(values.Get(constant.RequestParamTo))
	if err != nil {
		return q, err
	}

	q.Filter.From = from
	q.Filter.To = to
	q.Filter.Search = values.Get(constant.RequestParamSearch)

	if status := values.Get(constant.RequestParamStatus); status != "" {
		q.Filter.Status = status
	}

	if key := values.Get(constant.RequestParamSortBy); key != "" {
		q.Sort.Key = Key(key)
		q.Sort.Direction = Asc
	}

	if direction := Direction(strings.ToLower(values.Get(constant.RequestParamSortDir))); direction == Asc || direction == Desc {
		q.Sort.Direction = direction
	}

	if page, err := strconv.Atoi(values.Get(constant.RequestParamPage)); err == nil && page > 0 {
		q.Page = page
	}

	if size, err := strconv.Atoi(values.Get(constant.RequestParamPageSize)); err == nil && ValidPageSize(size) {
		q.PageSize = size
	}

	return q, nil
}

// Values encodes q for ParseQuery. Defaults are omitted.
func (q Query) Values() url.Values {
	values := url.Values{}

	if q.Filter.ChargeableOnly {
		values.Set(constant.RequestParamChargeable, "true")
	}

	if q.Filter.From != nil {
		values.Set(constant.RequestParamFrom, q.Filter.From.Format(constant.DateOnlyFormat))
	}

	if q.Filter.To != nil {
		values.Set(constant.RequestParamTo, q.Filter.To.Format(constant.DateOnlyFormat))
	}

	if q.Filter.Search != "" {
		values.Set(constant.RequestParamSearch, q.Filter.Search)
	}

	if q.Filter.Status != "" && q.Filter.Status != constant.StatusAll {
		values.Set(constant.RequestParamStatus, q.Filter.Status)
	}

	if q.Sort.Key != "" {
		values.Set(constant.RequestParamSortBy, string(q.Sort.Key))
		values.Set(constant.RequestParamSortDir, string(q.Sort.Direction))
	}

	if q.Page > 1 {
		values.Set(constant.RequestParamPage, strconv.Itoa(q.Page))
	}

	if q.PageSize > 0 && q.PageSize != DefaultPageSize {
		values.Set(constant.RequestParamPageSize, strconv.Itoa(q.PageSize))
	}

	return values
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	date, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return nil, failure.InvalidDateParam
	}

	return &date, nil
}
