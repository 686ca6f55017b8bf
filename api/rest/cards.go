package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nam088/drinking-game-v2/audit"
	"github.com/Nam088/drinking-game-v2/deck"
	mw "github.com/Nam088/drinking-game-v2/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CardsHandler handles the card-deck REST endpoints.
type CardsHandler struct {
	svc     *deck.Service
	auditor *audit.Service
	dataDir string
	logger  *zap.Logger
}

// NewCardsHandler creates a new CardsHandler. dataDir is where seed source
// files are looked up.
func NewCardsHandler(svc *deck.Service, auditor *audit.Service, dataDir string, logger *zap.Logger) *CardsHandler {
	return &CardsHandler{svc: svc, auditor: auditor, dataDir: dataDir, logger: logger}
}

// Register mounts the card routes on the given router group.
func (h *CardsHandler) Register(r gin.IRouter) {
	r.GET("/cards", h.List)
	r.GET("/cards/random", h.Random)
	r.POST("/cards/seed", h.Seed)
	r.POST("/cards", h.Create)
	r.DELETE("/cards", h.Clear)
}

// List handles GET /cards.
func (h *CardsHandler) List(c *gin.Context) {
	cards, err := h.svc.ListAll()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(cards),
		"cards":   cards,
	})
}

// Random handles GET /cards/random. An empty deck is a 404, not an error.
func (h *CardsHandler) Random(c *gin.Context) {
	card, err := h.svc.DrawRandom()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "No cards found in deck",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "card": card})
}

// Seed handles POST /cards/seed: load the seed source (data.csv preferred,
// data.json fallback) and replace the whole table with its records.
func (h *CardsHandler) Seed(c *gin.Context) {
	start := time.Now()

	records, source, err := deck.LoadSeedRecords(h.dataDir)
	if err != nil {
		h.auditSeed(c, source, 0, err, start)
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	count, err := h.svc.Seed(records)
	if err != nil {
		h.auditSeed(c, source, 0, err, start)
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	h.auditSeed(c, source, count, nil, start)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully seeded %d cards from %s", count, source),
		"count":   count,
	})
}

type createCardRequest struct {
	ID         int64  `json:"id"`
	Category   string `json:"category"   binding:"required,min=1,max=32"`
	Content    string `json:"content"    binding:"required"`
	Penalty    string `json:"penalty"`
	Difficulty string `json:"difficulty" binding:"max=32"`
}

// Create handles POST /cards, the single-card seeding entrypoint.
func (h *CardsHandler) Create(c *gin.Context) {
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return
	}

	card, err := h.svc.Create(deck.SeedRecord{
		ID:         req.ID,
		Category:   req.Category,
		Content:    req.Content,
		Penalty:    req.Penalty,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	h.auditor.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		Action:  "create",
		Source:  "api",
		Count:   1,
		Detail:  card,
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusCreated, gin.H{"success": true, "card": card})
}

// Clear handles DELETE /cards.
func (h *CardsHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearAll(); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.auditor.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		Action:  "clear",
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All cards cleared"})
}

// fail logs the error with request context and writes the failure envelope.
func (h *CardsHandler) fail(c *gin.Context, status int, err error) {
	h.logger.Error("api error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("trace_id", mw.GetTraceID(c)),
		zap.Error(err),
	)
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (h *CardsHandler) auditSeed(c *gin.Context, source string, count int, err error, start time.Time) {
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		Action:     "seed",
		Source:     source,
		Count:      count,
		IP:         c.ClientIP(),
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
		if errors.Is(err, deck.ErrNoDataFile) {
			entry.Source = "none"
		}
	}
	h.auditor.Log(entry)
}
