package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"event-platform/internal/models"
)

type PlanHandler struct {
	DB *sqlx.DB
}

func NewPlanHandler(db *sqlx.DB) *PlanHandler {
	return &PlanHandler{DB: db}
}

type PlanItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimated_cost" binding:"gte=0"`
	ActualCost    float64 `json:"actual_cost" binding:"gte=0"`
}

func (h *PlanHandler) ListPlanItems(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	items := []models.PlanItem{}
	query := `SELECT * FROM plan_items WHERE event_id = $1 ORDER BY created_at DESC`
	if err := h.DB.Select(&items, query, eventID); err != nil {
		log.Println("Failed to list plan items:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch plan items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *PlanHandler) CreatePlanItem(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req PlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var item models.PlanItem
	query := `
		INSERT INTO plan_items (event_id, name, category, estimated_cost, actual_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`
	err = h.DB.Get(&item, query, eventID, req.Name, req.Category, req.EstimatedCost, req.ActualCost)
	if err != nil {
		log.Println("Failed to create plan item:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *PlanHandler) UpdatePlanItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan item id"})
		return
	}

	var req PlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var item models.PlanItem
	query := `
		UPDATE plan_items SET name = $1, category = $2, estimated_cost = $3, actual_cost = $4
		WHERE id = $5
		RETURNING *
	`
	err = h.DB.Get(&item, query, req.Name, req.Category, req.EstimatedCost, req.ActualCost, id)
	if err != nil {
		log.Println("Failed to update plan item:", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *PlanHandler) DeletePlanItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan item id"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM plan_items WHERE id = $1`, id)
	if err != nil {
		log.Println("Failed to delete plan item:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan item deleted."})
}
