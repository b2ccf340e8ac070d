package api

import (
	"net/http"
	"strconv"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/service/schedule"
	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	service schedule.ScheduleUseCase
}

func NewScheduleHandler(service schedule.ScheduleUseCase) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) Register(router *gin.RouterGroup) {
	router.GET("/courts/:courtID/days/:date", h.daySchedule)
	router.GET("/me/bookings", h.myBookings)
}

func (h *ScheduleHandler) daySchedule(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid court id"})
		return
	}
	date := c.Param("date")
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.service.DaySchedule(c.Request.Context(), courtID, date)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"court_id": courtID, "date": date, "slots": slots})
}

// myBookings returns the caller's bookings for today and tomorrow, the only
// dates the system books.
func (h *ScheduleHandler) myBookings(c *gin.Context) {
	userID, _ := identity(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + headerUserID + " header"})
		return
	}

	now := time.Now()
	dates := []string{domain.DateWithOffset(now, 0), domain.DateWithOffset(now, 1)}
	bookings, err := h.service.UserBookings(c.Request.Context(), userID, dates)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
