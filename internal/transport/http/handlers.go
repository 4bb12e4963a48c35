package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/auth"
	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
	ordersvc "github.com/vladislavdragonenkov/ordermgmt/internal/service/order"
)

const (
	defaultPageSize         = 20
	defaultCustomerPageSize = 10
)

// Server реализует REST-поверхность сервиса заказов поверх оркестратора.
type Server struct {
	svc    *ordersvc.Service
	logger *log.Entry
}

// NewServer создаёт HTTP-слой сервиса заказов.
func NewServer(svc *ordersvc.Service, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Server{svc: svc, logger: logger}
}

// Register навешивает маршруты на echo-группу /api/v1/orders.
func (s *Server) Register(g *echo.Group) {
	g.POST("", s.createOrder)
	g.GET("/health", s.health)
	g.GET("/number/:orderNumber", s.getOrderByNumber)
	g.GET("/customer/:customerId", s.listCustomerOrders)
	g.GET("/:id", s.getOrder)
	g.GET("", s.listOrders)
	g.PATCH("/:id/status", s.updateStatus)
	g.DELETE("/:id", s.cancelOrder)
}

type createOrderItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int32  `json:"qty"`
	PriceMinor  int64  `json:"price_minor"`
}

type createOrderRequest struct {
	CustomerID      string                   `json:"customer_id"`
	CustomerEmail   string                   `json:"customer_email"`
	ShippingAddress string                   `json:"shipping_address"`
	Items           []createOrderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Qty           int32  `json:"qty"`
	PriceMinor    int64  `json:"price_minor"`
	SubtotalMinor int64  `json:"subtotal_minor"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	CustomerEmail   string              `json:"customer_email"`
	ShippingAddress string              `json:"shipping_address"`
	Status          string              `json:"status"`
	TotalMinor      int64               `json:"total_minor"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

type orderPageResponse struct {
	Orders     []orderResponse `json:"orders"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalCount int64           `json:"total_count"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Qty:           item.Qty,
			PriceMinor:    item.PriceMinor,
			SubtotalMinor: item.SubtotalMinor,
		})
	}
	return orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		TotalMinor:      order.TotalMinor,
		Items:           items,
		CreatedAt:       order.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt:       order.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func toOrderPageResponse(page domain.OrderPage) orderPageResponse {
	orders := make([]orderResponse, 0, len(page.Orders))
	for _, order := range page.Orders {
		orders = append(orders, toOrderResponse(order))
	}
	return orderPageResponse{
		Orders:     orders,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: page.TotalCount,
	}
}

// createOrder — POST /api/v1/orders.
func (s *Server) createOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}

	items := make([]domain.NewItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.NewItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Qty:         item.Qty,
			PriceMinor:  item.PriceMinor,
		})
	}

	order, err := s.svc.CreateOrder(req.CustomerID, req.CustomerEmail, req.ShippingAddress, items)
	if err != nil {
		return s.mapError(c, err)
	}

	s.logger.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"principal":    auth.PrincipalFrom(c),
	}).Debug("create order request handled")

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+order.ID)
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// getOrder — GET /api/v1/orders/{id}.
func (s *Server) getOrder(c echo.Context) error {
	order, err := s.svc.GetOrderByID(c.Param("id"))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// getOrderByNumber — GET /api/v1/orders/number/{orderNumber}.
func (s *Server) getOrderByNumber(c echo.Context) error {
	order, err := s.svc.GetOrderByNumber(c.Param("orderNumber"))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// listOrders — GET /api/v1/orders?page=&size=&sortBy=&direction=.
func (s *Server) listOrders(c echo.Context) error {
	page := parsePageRequest(c, defaultPageSize)
	result, err := s.svc.ListOrders(page)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderPageResponse(result))
}

// listCustomerOrders — GET /api/v1/orders/customer/{customerId}.
func (s *Server) listCustomerOrders(c echo.Context) error {
	page := parsePageRequest(c, defaultCustomerPageSize)
	result, err := s.svc.ListOrdersByCustomer(c.Param("customerId"), page)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderPageResponse(result))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateStatus — PATCH /api/v1/orders/{id}/status.
func (s *Server) updateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}

	status, err := domain.ParseStatus(strings.ToUpper(req.Status))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "unknown status: " + req.Status})
	}

	order, err := s.svc.UpdateOrderStatus(c.Param("id"), status)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// cancelOrder — DELETE /api/v1/orders/{id}. Отмена — смена статуса,
// физического удаления заказа нет.
func (s *Server) cancelOrder(c echo.Context) error {
	if err := s.svc.CancelOrder(c.Param("id")); err != nil {
		return s.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// health — GET /api/v1/orders/health, живость без аутентификации.
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "order-service",
	})
}

// mapError переводит доменные ошибки в структурированные HTTP-ответы.
// Инфраструктурные ошибки наружу не детализируются.
func (s *Server) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemQtyInvalid),
		errors.Is(err, domain.ErrItemPriceInvalid),
		errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrCustomerEmailRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		s.logger.WithError(err).Error("request failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

// parsePageRequest разбирает параметры пагинации с дефолтами:
// сортировка по created_at по убыванию, направление нечувствительно к регистру.
func parsePageRequest(c echo.Context, defaultSize int) domain.PageRequest {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = defaultSize
	}

	sortBy := c.QueryParam("sortBy")
	switch sortBy {
	case "createdAt", "":
		sortBy = "created_at"
	case "orderNumber":
		sortBy = "order_number"
	}

	direction := domain.SortDesc
	if strings.EqualFold(c.QueryParam("direction"), "asc") {
		direction = domain.SortAsc
	}

	return domain.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    sortBy,
		Direction: direction,
	}
}
