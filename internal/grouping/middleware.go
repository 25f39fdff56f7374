package grouping

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	widgetMiddleware "bitbucket.org/crgw/booking-widget/internal/widget/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type RequestManager interface {
	HandleRequest(context.Context, func() (*Response, error)) (*Response, error)
}

type MiddlewareOptions struct {
	CreateManager func(
		redis *redis.Client,
		log *zerolog.Logger,
		cacheKey string,
	) RequestManager
	RedisClient *redis.Client
}

// CacheKey normalizes one search into its grouping key. Type order does not
// change the result set, so labels are sorted before joining.
func CacheKey(params schema.SearchParams) string {
	labels := make([]string, 0, len(params.Types))
	for _, t := range params.Types {
		labels = append(labels, string(t))
	}
	sort.Strings(labels)

	return "search:" +
		params.Start.Format(time.DateOnly) + ":" +
		params.End.Format(time.DateOnly) + ":" +
		strings.Join(labels, ",")
}

func Middleware(o MiddlewareOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := c.MustGet("logger").(*zerolog.Logger)

		params, ok := c.MustGet(widgetMiddleware.ParamsKey).(*schema.SearchParams)
		if !ok {
			log.Warn().Msg("Grouping added to route, but no search params were bound")
			c.Next()
			return
		}

		cacheKey := CacheKey(*params)

		groupingManager := o.CreateManager(o.RedisClient, log, cacheKey)

		requester := func() (*Response, error) {
			bodyWriter := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
			c.Writer = bodyWriter

			// expects the search handler to be called
			c.Next()

			code := c.Writer.Status()
			body := bodyWriter.body.String()
			headers := bodyWriter.Header()
			err := c.Err()

			return &Response{
				Code:    code,
				Body:    body,
				Headers: headers,
			}, err
		}

		response, err := groupingManager.HandleRequest(c.Request.Context(), requester)

		if !c.Writer.Written() {
			if err != nil {
				widgetMiddleware.HandleError(
					c,
					http.StatusBadRequest,
					"Error running the search",
					err,
				)
				return
			}

			for key, values := range response.Headers {
				for _, value := range values {
					c.Writer.Header().Add(key, value)
				}
			}

			c.Status(response.Code)
			c.Data(response.Code, gin.MIMEJSON, []byte(response.Body))
		}

		c.Abort()
	}
}
