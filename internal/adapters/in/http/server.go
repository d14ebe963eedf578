// Package http exposes the order lifecycle over a JSON API.
// It coordinates between HTTP handlers and application use cases, mapping
// the domain error taxonomy onto status codes: validation failures are 400,
// missing objects 404, in-flight duplicates 409, and business rejections
// (insufficient stock, invalid transitions) 422.
package http

import (
	"errors"
	"net/http"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles HTTP requests for the ordering API.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		getActiveOrdersHandler:   getActiveOrdersHandler,
	}
}

// RegisterRoutes attaches the API handlers to an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetActiveOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
}

// CreateOrder handles POST /api/v1/orders - places a new order.
// A fresh placement answers 201; a replay of an earlier request with the
// same idempotency key answers 200 with the originally created order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromBytes(request.CustomerID[:])
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid customer id: "+err.Error())
	}

	storeID, err := kernel.UUIDFromBytes(request.StoreID[:])
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid store id: "+err.Error())
	}

	items := make([]order.LineItem, 0, len(request.Items))
	for _, itemBody := range request.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemBody.ItemID[:])
		if itemErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid item id: "+itemErr.Error())
		}

		item, itemErr := order.NewLineItem(itemID, itemBody.Name, itemBody.UnitPrice, itemBody.Quantity)
		if itemErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid line item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, storeID, items, request.IdempotencyKey)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return commandErrorResponse(ctx, err)
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	return ctx.JSON(status, orderFromAggregate(result.Order))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// through its lifecycle. Cancelling a live order restores its stock.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request UpdateOrderStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	status, err := order.StatusFromString(request.Status)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Unknown status: "+request.Status)
	}

	actorID, err := kernel.UUIDFromBytes(request.ActorID[:])
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid actor id: "+err.Error())
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, actorID, request.IdempotencyKey)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid status update: "+err.Error())
	}

	result, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return commandErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromAggregate(result.Order))
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	model, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "Order not found")
		}
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, orderFromReadModel(model))
}

// GetActiveOrders handles GET /api/v1/orders - lists non-terminal orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]OrderSummary, len(orders))
	for i, activeOrder := range orders {
		response[i] = OrderSummary{
			ID:          activeOrder.ID.Bytes(),
			CustomerID:  activeOrder.CustomerID.Bytes(),
			StoreID:     activeOrder.StoreID.Bytes(),
			Status:      activeOrder.Status.String(),
			TotalAmount: activeOrder.TotalAmount,
			CreatedAt:   activeOrder.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// commandErrorResponse maps lifecycle command failures onto status codes.
func commandErrorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, idempotency.ErrOperationInProgress):
		return errorResponse(ctx, http.StatusConflict, "Operation already in progress, retry later")
	case errors.Is(err, stock.ErrInsufficientStock):
		return errorResponse(ctx, http.StatusUnprocessableEntity, "Insufficient stock: "+err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		return errorResponse(ctx, http.StatusUnprocessableEntity, "Invalid status transition: "+err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "Internal error")
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}
