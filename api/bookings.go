package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/service/reservation"
	"courtbook/internal/slots"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service reservation.ReservationUseCase
	courts  map[int]bool
	now     func() time.Time
}

type joinRequest struct {
	CourtID int    `json:"court_id"`
	Date    string `json:"date"`
	SlotID  string `json:"slot_id"`
	Spots   int    `json:"spots"`
}

func NewBookingHandler(service reservation.ReservationUseCase, courts []int) *BookingHandler {
	known := make(map[int]bool, len(courts))
	for _, id := range courts {
		known[id] = true
	}
	return &BookingHandler{service: service, courts: known, now: time.Now}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.join)
	router.DELETE("/", h.leave)
}

func (h *BookingHandler) join(c *gin.Context) {
	userID, displayName := identity(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + headerUserID + " header"})
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.validTarget(c, req.CourtID, req.Date, req.SlotID) {
		return
	}

	err := h.service.Join(c.Request.Context(), reservation.JoinInput{
		CourtID:     req.CourtID,
		Date:        req.Date,
		SlotID:      req.SlotID,
		UserID:      userID,
		DisplayName: displayName,
		Spots:       req.Spots,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "joined", "slot_id": req.SlotID})
}

func (h *BookingHandler) leave(c *gin.Context) {
	userID, _ := identity(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + headerUserID + " header"})
		return
	}

	courtID, err := strconv.Atoi(c.Query("court_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid court_id"})
		return
	}
	date := c.Query("date")
	slotID := c.Query("slot_id")
	if !h.validTarget(c, courtID, date, slotID) {
		return
	}

	err = h.service.Leave(c.Request.Context(), reservation.LeaveInput{
		CourtID: courtID,
		Date:    date,
		SlotID:  slotID,
		UserID:  userID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left", "slot_id": slotID})
}

// validTarget rejects courts, dates and slot ids that were never offered.
// Bookable dates are exactly today and tomorrow.
func (h *BookingHandler) validTarget(c *gin.Context, courtID int, date, slotID string) bool {
	if !h.courts[courtID] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown court"})
		return false
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return false
	}
	now := h.now()
	if date != domain.DateWithOffset(now, 0) && date != domain.DateWithOffset(now, 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrDateOutOfRange.Error()})
		return false
	}
	if !slots.Contains(slotID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown slot id"})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrNotAMember),
		errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBeforeOpeningTime):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDateOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflictExhausted),
		errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
