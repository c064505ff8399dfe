package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"customer-manager/internal/domain"
	customersvc "customer-manager/internal/service/customer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const customerIDParam = "customerId"

// CustomerService is the customer use-case surface the handlers depend on.
type CustomerService interface {
	Create(ctx context.Context, in customersvc.Input) (*domain.Customer, error)
	List(ctx context.Context, q domain.ListQuery) (*domain.Page, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, id string, in customersvc.Input) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (*domain.Customer, error)
}

// bindInput decodes the JSON body. An empty body decodes to a zero Input so
// the field rules report what is missing.
func bindInput(c *gin.Context) (customersvc.Input, error) {
	var in customersvc.Input
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		return customersvc.Input{}, domain.Validation("Invalid JSON body: " + err.Error())
	}
	return in, nil
}

func createCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := bindInput(c)
		if err != nil {
			respondError(c, err)
			return
		}
		created, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, "Customer created successfully", created)
	}
}

func listCustomersHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q, err := customersvc.NormalizeListQuery(c.Request.URL.Query(), *zerolog.Ctx(ctx))
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := svc.List(ctx, q)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, "Customer retrieved successfully", page)
	}
}

func getCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.Get(c.Request.Context(), c.Param(customerIDParam))
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, "Customer retrieved successfully", customer)
	}
}

func updateCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := bindInput(c)
		if err != nil {
			respondError(c, err)
			return
		}
		updated, err := svc.Update(c.Request.Context(), c.Param(customerIDParam), in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, "Customer updated successfully", updated)
	}
}

func deleteCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := svc.Delete(c.Request.Context(), c.Param(customerIDParam))
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, "Customer deleted successfully", removed)
	}
}
