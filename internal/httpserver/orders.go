package httpserver

import (
	"net/http"
	"strconv"

	ordersvc "canteen-backend/internal/service/order"
	"github.com/gin-gonic/gin"
)

func createOrderHandler(orders OrderService, canteen CanteenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !canteen.IsOpen() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "canteen is closed"})
			return
		}
		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if in.DeviceToken == "" {
			in.DeviceToken = c.GetHeader("X-Device-Id")
		}
		created, err := orders.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"order":       created,
			"billNumber":  created.BillNumber,
			"lookupToken": created.LookupToken,
		})
	}
}

func myOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceToken := c.Query("deviceId")
		if deviceToken == "" {
			deviceToken = c.GetHeader("X-Device-Id")
		}
		list, err := orders.OrdersForDevice(c.Request.Context(), deviceToken)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func kitchenQueueHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.KitchenQueue(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func markReadyHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.MarkReady(c.Request.Context(), c.Param("billNumber"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}

func markItemDeliveredHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item index must be a number"})
			return
		}
		o, err := orders.MarkItemDelivered(c.Request.Context(), c.Param("billNumber"), index)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}

func markDeliveredHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.MarkDelivered(c.Request.Context(), c.Param("billNumber"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}

func allOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.AllOrders(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func revenueHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := orders.DailyRevenue(c.Request.Context(), c.Query("date"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
