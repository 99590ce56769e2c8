package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sideledger/sideledger/internal/domain/models"
	"github.com/sideledger/sideledger/internal/service/attendance"
)

// AttendanceHandler serves the attendance marking and listing endpoints.
type AttendanceHandler struct {
	attendance *attendance.Service
	logger     *zap.Logger
}

// NewAttendanceHandler constructs the HTTP handler adapter.
func NewAttendanceHandler(svc *attendance.Service, logger *zap.Logger) *AttendanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceHandler{attendance: svc, logger: logger}
}

type markRequest struct {
	Worker  string                  `json:"worker"`
	Date    string                  `json:"date"`
	Status  models.AttendanceStatus `json:"status"`
	TimeIn  *time.Time              `json:"timeIn"`
	TimeOut *time.Time              `json:"timeOut"`
	Notes   string                  `json:"notes"`
}

// Mark records or updates one attendance day.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in := attendance.MarkInput{
		Status:  req.Status,
		TimeIn:  req.TimeIn,
		TimeOut: req.TimeOut,
		Notes:   req.Notes,
	}
	if req.Worker != "" {
		id, err := primitive.ObjectIDFromHex(req.Worker)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
			return
		}
		in.WorkerID = id
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		in.Date = date
	}

	record, err := h.attendance.Mark(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// List returns the attendance records visible to the caller, optionally
// filtered by worker and day.
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var q models.AttendanceQuery
	if raw := c.Query("worker"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker filter"})
			return
		}
		q.Worker = id
	}
	if raw := c.Query("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date filter"})
			return
		}
		q.Date = date
	}

	records, err := h.attendance.List(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
