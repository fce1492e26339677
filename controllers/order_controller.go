package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop-api/middlewares"
	"shop-api/models"
	"shop-api/payment"
	"shop-api/rabbitmq"
	"shop-api/services"
)

type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

var (
	orderService *services.OrderService
	products     ProductLister
	rabbitMQ     *rabbitmq.RabbitMQ
)

func SetOrderService(s *services.OrderService) {
	orderService = s
}

func SetProductLister(l ProductLister) {
	products = l
}

func SetRabbitMQ(rmq *rabbitmq.RabbitMQ) {
	rabbitMQ = rmq
}

func GetProducts(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list_products", status)
	}()

	list, err := products.ListProducts(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": list})
}

func CreateOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 400
		middlewares.RecordOrderOperation("create", status)
	}()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderValidationError(c, &services.ValidationError{
			Group: services.GroupProduct,
			Code:  services.CodeMissingFields,
			Name:  "Order creation requires a product with an id and a quantity",
		})
		return
	}

	orderID, err := orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		renderOrderError(c, err)
		return
	}

	publishEvent(orderID, 5, rabbitmq.EventOrderCreated)
	c.Redirect(http.StatusFound, fmt.Sprintf("/order/%d", orderID))
}

func GetOrderDetails(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("details", status)
	}()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	order, err := orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		renderOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": models.NewOrderView(order)})
}

func UpdateShipping(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_shipping", status)
	}()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	var req models.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderValidationError(c, &services.ValidationError{
			Group: services.GroupOrder,
			Code:  services.CodeMissingFields,
			Name:  "One or more mandatory fields are missing",
		})
		return
	}

	order, err := orderService.SetShipping(c.Request.Context(), orderID, req)
	if err != nil {
		renderOrderError(c, err)
		return
	}

	publishEvent(orderID, 5, rabbitmq.EventShippingUpdated)
	c.JSON(http.StatusOK, gin.H{"order": models.NewOrderView(order)})
}

func PayOrder(c *gin.Context) {
	defer func() {
		status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("pay", status)
	}()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	var req models.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderValidationError(c, &services.ValidationError{
			Group: services.GroupOrder,
			Code:  services.CodeMissingFields,
			Name:  "Credit card information is required for payment",
		})
		return
	}

	order, err := orderService.Pay(c.Request.Context(), orderID, req.CreditCard)
	if err != nil {
		renderOrderError(c, err)
		return
	}

	publishEvent(orderID, 8, rabbitmq.EventOrderPaid) // 支付事件高优先级
	c.JSON(http.StatusOK, gin.H{"order": models.NewOrderView(order)})
}

func renderValidationError(c *gin.Context, vErr *services.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"errors": gin.H{
			vErr.Group: gin.H{
				"code": vErr.Code,
				"name": vErr.Name,
			},
		},
	})
}

func renderOrderError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		renderValidationError(c, vErr)
		return
	}

	if errors.Is(err, services.ErrOrderNotFound) {
		c.Status(http.StatusNotFound)
		return
	}

	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) {
		// The processor's body passes through unchanged.
		c.Data(http.StatusUnprocessableEntity, "application/json", gwErr.Body)
		return
	}

	if errors.Is(err, services.ErrPaymentUnavailable) {
		log.Printf("Payment gateway unreachable: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		return
	}

	log.Printf("Order operation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// publishEvent emits a lifecycle event best-effort; publishing failures are
// logged and never fail the request.
func publishEvent(orderID int, priority int, eventType string) {
	if rabbitMQ == nil {
		return
	}
	if err := rabbitMQ.PublishOrderEvent(orderID, priority, eventType); err != nil {
		log.Printf("Failed to publish %s event for order %d: %v", eventType, orderID, err)
	}
}
