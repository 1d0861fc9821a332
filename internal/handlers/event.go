package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"event-platform/internal/models"
)

type EventHandler struct {
	DB *sqlx.DB
}

func NewEventHandler(db *sqlx.DB) *EventHandler {
	return &EventHandler{DB: db}
}

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	EventDate   time.Time `json:"event_date" binding:"required"`
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events := []models.Event{}
	query := `SELECT * FROM events ORDER BY event_date DESC`
	if err := h.DB.Select(&events, query); err != nil {
		log.Println("Failed to list events:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var event models.Event
	if err := h.DB.Get(&event, `SELECT * FROM events WHERE id = $1`, id); err != nil {
		log.Println("Failed to find event:", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var event models.Event
	query := `
		INSERT INTO events (title, description, venue, event_date)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`
	err := h.DB.Get(&event, query, req.Title, req.Description, req.Venue, req.EventDate)
	if err != nil {
		log.Println("Failed to create event:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var event models.Event
	query := `
		UPDATE events SET title = $1, description = $2, venue = $3, event_date = $4, updated_at = now()
		WHERE id = $5
		RETURNING *
	`
	err = h.DB.Get(&event, query, req.Title, req.Description, req.Venue, req.EventDate, id)
	if err != nil {
		log.Println("Failed to update event:", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		log.Println("Failed to delete event:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted."})
}
