package web

import (
	"context"
	"net/http"
	"os"
	"strings"

	"bitbucket.org/crgw/booking-widget/internal/widget/middleware"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OpenapiValidator rejects requests that do not match the published
// contract. A missing or broken document disables validation instead of
// taking the service down.
func OpenapiValidator() gin.HandlerFunc {
	location := os.Getenv("OPENAPI_LOCATION")
	if location == "" {
		location = "./api/openapi.json"
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: true}

	var router routers.Router

	doc, err := loader.LoadFromFile(location)
	if err == nil {
		err = doc.Validate(context.Background())
	}
	if err == nil {
		router, err = gorillamux.NewRouter(doc)
	}

	if err != nil {
		loadErr := err

		return func(c *gin.Context) {
			log := c.MustGet("logger").(*zerolog.Logger)
			log.Warn().
				Err(loadErr).
				Msg("Openapi document unavailable, request validation disabled")
		}
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/debug/pprof") {
			return
		}

		route, pathParams, findErr := router.FindRoute(c.Request)
		if findErr != nil {
			middleware.HandleError(c, http.StatusNotFound, "Unknown route", findErr)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
		}

		if validationErr := openapi3filter.ValidateRequest(c.Request.Context(), input); validationErr != nil {
			middleware.HandleError(c, http.StatusBadRequest, "Request validation failed", validationErr)
			return
		}
	}
}
