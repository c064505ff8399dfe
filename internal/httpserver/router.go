package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles the collaborators the router needs.
type Deps struct {
	CustomerSvc CustomerService
	Store       Pinger
	// AuthUsers holds "user:bcrypt-hash" entries. Empty disables basic auth.
	AuthUsers          []string
	CORSAllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps) (*gin.Engine, error) {
	corsHandler, err := corsMiddleware(deps.CORSAllowedOrigins)
	if err != nil {
		return nil, err
	}
	users, err := parseAccounts(deps.AuthUsers)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(requestID(), requestLogger(logger), recovery(), corsHandler)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	router.GET("/api-docs", docsHandler)
	router.GET("/api-docs/openapi.json", openAPIHandler)

	customers := router.Group("/customer")
	if len(users) > 0 {
		customers.Use(basicAuth(users))
	} else {
		logger.Warn().Msg("no auth users configured, customer routes are unauthenticated")
	}
	customers.POST("", createCustomerHandler(deps.CustomerSvc))
	customers.GET("", listCustomersHandler(deps.CustomerSvc))
	customers.GET("/:"+customerIDParam, getCustomerHandler(deps.CustomerSvc))
	customers.PUT("/:"+customerIDParam, updateCustomerHandler(deps.CustomerSvc))
	customers.DELETE("/:"+customerIDParam, deleteCustomerHandler(deps.CustomerSvc))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, newEnvelope(http.StatusNotFound, msgRouteNotFound, nil))
	})

	return router, nil
}
