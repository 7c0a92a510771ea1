package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/market-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/market-hunter/internal/dto"
	"github.com/DjordjeVuckovic/market-hunter/internal/search"
	"github.com/DjordjeVuckovic/market-hunter/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// Searcher runs a listing search.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (*pagination.OffsetResult[search.ListingView], error)
}

type SearchRouter struct {
	e        *echo.Echo
	searcher Searcher
	binder   echo.DefaultBinder
}

func NewSearchRouter(e *echo.Echo, searcher Searcher) *SearchRouter {
	return &SearchRouter{
		e:        e,
		searcher: searcher,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/listings/search", r.searchHandler)
}

func (r *SearchRouter) searchHandler(c echo.Context) error {
	var params dto.ListingSearchParams
	if err := r.binder.BindQueryParams(c, &params); err != nil {
		return apperr.NewValidationWrap("invalid query parameters", err)
	}

	q, err := params.ToQuery()
	if err != nil {
		return err
	}

	res, err := r.searcher.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewListingSearchResponse(res))
}
