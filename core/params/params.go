package params

import (
	"strconv"

	"party-invites/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{PageNumber: 1, PageSize: constants.DefaultPageSize}

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		p.PageNumber = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		p.PageSize = limit
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
