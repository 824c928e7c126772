// Package params parses and re-encodes common list query parameters.
package params

import (
	"net/url"
	"strconv"

	"parking-rsvp-api/core/constants"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string

	values url.Values
}

func NewQueryParams() *QueryParams {
	return &QueryParams{
		PageNumber: 1,
		PageSize:   constants.DefaultPageSize,
		values:     url.Values{},
	}
}

// FromValues builds QueryParams from a parsed query string, clamping
// page and size to sane bounds.
func FromValues(v url.Values) *QueryParams {
	p := NewQueryParams()
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if s, err := strconv.Atoi(v.Get("size")); err == nil && s > 0 {
		p.PageSize = s
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	p.Search = v.Get("search")
	return p
}

func (p *QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

func (p *QueryParams) Add(key, value string) {
	p.values.Add(key, value)
}

func (p *QueryParams) Encode() string {
	out := url.Values{}
	out.Set("page", strconv.Itoa(p.PageNumber))
	out.Set("size", strconv.Itoa(p.PageSize))
	if p.Search != "" {
		out.Set("search", p.Search)
	}
	for k, vs := range p.values {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out.Encode()
}
