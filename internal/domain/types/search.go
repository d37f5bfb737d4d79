package types

import (
	"net/url"
	"strconv"
)

// CopyrightSearchParams filters list queries. Zero values are omitted.
type CopyrightSearchParams struct {
	AppName string `json:"appName,omitempty"`
	Status  Status `json:"status,omitempty"`
	// DateRange is an inclusive [from, to] pair.
	DateRange *[2]string `json:"dateRange,omitempty"`
	Current   int        `json:"current,omitempty"`
	PageSize  int        `json:"pageSize,omitempty"`
}

// Values encodes the filter as a query string. The date range is sent as two
// repeated dateRange values, from first.
func (p CopyrightSearchParams) Values() url.Values {
	v := url.Values{}
	if p.AppName != "" {
		v.Set("appName", p.AppName)
	}
	if p.Status != "" {
		v.Set("status", string(p.Status))
	}
	if p.DateRange != nil {
		v.Add("dateRange", p.DateRange[0])
		v.Add("dateRange", p.DateRange[1])
	}
	if p.Current > 0 {
		v.Set("current", strconv.Itoa(p.Current))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return v
}
