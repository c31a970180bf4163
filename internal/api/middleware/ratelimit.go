package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles requests per client IP. rate uses the limiter format,
// e.g. "60-M" for sixty per minute.
func RateLimit(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		log.Fatalf("Error while running ratelimiter middleware")
	}

	store := memory.NewStore()
	instance := limiter.New(store, parsed)

	limiterMiddleware := stdlib.NewMiddleware(instance)

	return func(c *gin.Context) {
		limiterMiddleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Status() == http.StatusTooManyRequests {
			c.Abort()
			return
		}
	}
}
