package widget

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/grouping"
	"bitbucket.org/crgw/booking-widget/internal/reservation"
	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/search"
	"bitbucket.org/crgw/booking-widget/internal/session"
	"bitbucket.org/crgw/booking-widget/internal/tools/slowlog"
	widgetMiddleware "bitbucket.org/crgw/booking-widget/internal/widget/middleware"
	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Catalog interface {
	Company() schema.CompanyProfile
	VehicleTypes() []schema.VehicleType
	Featured() []schema.Vehicle
}

type Searcher interface {
	Search(ctx context.Context, rng session.DateRange, filter session.TypeFilter) (schema.SearchResult, error)
}

type PhotoAlbum interface {
	Fetch(ctx context.Context, code string) ([]string, error)
}

// Services is everything the widget routes run against. All fields are
// required.
type Services struct {
	Catalog  Catalog
	Search   Searcher
	Photos   PhotoAlbum
	Sessions *Sessions
}

type sessionResponse struct {
	Types           []schema.VehicleType `json:"types"`
	Start           openapi_types.Date   `json:"start"`
	End             openapi_types.Date   `json:"end"`
	SelectedVehicle *schema.Vehicle      `json:"selectedVehicle,omitempty"`
	LastResult      *schema.SearchResult `json:"lastResult,omitempty"`
	Summary         *reservation.Summary `json:"summary,omitempty"`
}

func resolveSession(ctx *gin.Context, sessions *Sessions) *Session {
	id := ctx.GetHeader(SessionHeader)
	if id == "" {
		id = ctx.MustGet("correlationId").(string)
	}

	return sessions.Resolve(id)
}

func RegisterRoutes(
	router *gin.Engine,
	services *Services,
	groupingRedis *redis.Client,
) {
	group := router.Group(
		"/",
		widgetMiddleware.TapLogger,
	)

	group.GET("/company", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, services.Catalog.Company())
	})

	group.GET("/vehicle-types", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, services.Catalog.VehicleTypes())
	})

	group.GET("/featured", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, services.Catalog.Featured())
	})

	group.GET("/session", func(ctx *gin.Context) {
		snapshot := resolveSession(ctx, services.Sessions).Snapshot()

		response := sessionResponse{
			Types:           snapshot.Filter.Selected(),
			Start:           snapshot.Range.Start,
			End:             snapshot.Range.End,
			SelectedVehicle: snapshot.SelectedVehicle,
			LastResult:      snapshot.LastResult,
		}

		if snapshot.SelectedVehicle != nil {
			summary := reservation.ComputeSummary(snapshot.Range, snapshot.SelectedVehicle.DailyRate)
			response.Summary = &summary
		}

		ctx.JSON(http.StatusOK, response)
	})

	group.POST("/session/vehicle",
		widgetMiddleware.PrepareParams(schema.Vehicle{}),
		func(ctx *gin.Context) {
			params, ok := ctx.MustGet(widgetMiddleware.ParamsKey).(*schema.Vehicle)
			if !ok {
				widgetMiddleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			resolveSession(ctx, services.Sessions).SelectVehicle(*params)

			ctx.Status(http.StatusNoContent)
		},
	)

	group.DELETE("/session/vehicle", func(ctx *gin.Context) {
		resolveSession(ctx, services.Sessions).ClearSelection()

		ctx.Status(http.StatusNoContent)
	})

	group.POST("/search",
		widgetMiddleware.PrepareParams(schema.SearchParams{}),
		grouping.Middleware(grouping.MiddlewareOptions{
			CreateManager: grouping.NewRequestManager,
			RedisClient:   groupingRedis,
		}),
		func(ctx *gin.Context) {
			logger := ctx.MustGet("logger").(*zerolog.Logger)

			slowLog := slowlog.CreateLogger(logger)
			slowLog.Start("widget:search")

			params, ok := ctx.MustGet(widgetMiddleware.ParamsKey).(*schema.SearchParams)
			if !ok {
				widgetMiddleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			rng := session.DateRange{Start: params.Start, End: params.End}
			filter := session.FilterOf(params.Types)

			sess := resolveSession(ctx, services.Sessions)
			generation := sess.BeginSearch(rng, filter)

			result, err := services.Search.Search(ctx.Request.Context(), rng, filter)
			if err != nil {
				var validation *session.ValidationError
				if errors.As(err, &validation) {
					widgetMiddleware.HandleError(ctx, http.StatusBadRequest, validation.Message, err)
					return
				}

				var searchErr *search.SearchError
				if errors.As(err, &searchErr) {
					widgetMiddleware.HandleError(ctx, http.StatusBadGateway, "Availability search failed", err)
					return
				}

				widgetMiddleware.HandleError(ctx, http.StatusInternalServerError, "Failed running the search", err)
				return
			}

			if !sess.AcceptSearch(generation, result) {
				logger.Info().
					Str("label", "search").
					Msg("Result superseded by a newer search")
			}

			ctx.JSON(http.StatusOK, result)

			slowLog.Stop("widget:search")
		},
	)

	group.GET("/vehicles/:code/photos", func(ctx *gin.Context) {
		logger := ctx.MustGet("logger").(*zerolog.Logger)

		code := ctx.Params.ByName("code")

		urls, err := services.Photos.Fetch(ctx.Request.Context(), code)
		if err != nil {
			// the widget falls back to the primary image
			logger.Warn().
				Str("code", code).
				Str("error", err.Error()).
				Msg("Photo fetch failed, gallery left empty")

			urls = []string{}
		}

		ctx.JSON(http.StatusOK, urls)
	})

	group.POST("/reservations",
		widgetMiddleware.PrepareParams(schema.ReservationRequest{}),
		func(ctx *gin.Context) {
			params, ok := ctx.MustGet(widgetMiddleware.ParamsKey).(*schema.ReservationRequest)
			if !ok {
				widgetMiddleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
				return
			}

			sess := resolveSession(ctx, services.Sessions)

			result, err := sess.Reservations().Submit(ctx.Request.Context(), *params)
			if err != nil {
				if errors.Is(err, reservation.ErrSubmitInFlight) {
					widgetMiddleware.HandleError(ctx, http.StatusConflict, "A reservation is already being submitted", err)
					return
				}

				var validation *reservation.ValidationError
				if errors.As(err, &validation) {
					widgetMiddleware.HandleError(ctx, http.StatusBadRequest, validation.Error(), err)
					return
				}

				widgetMiddleware.HandleError(ctx, http.StatusInternalServerError, "Failed submitting the reservation", err)
				return
			}

			// the response is the acknowledgement, free the workflow for the
			// next attempt
			sess.Reservations().Acknowledge()

			if result.Status == reservation.Succeeded {
				// a confirmed booking clears the session for the next search
				sess.Reset(time.Now())

				ctx.JSON(http.StatusOK, schema.SuccessOutcome(result.ReservationID))
				return
			}

			ctx.JSON(http.StatusOK, schema.FailureOutcome(result.Reason))
		},
	)
}
