package routes

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"PricePulse/buyhatke"
	"PricePulse/models"
)

type CompareRequest struct {
	URL         string `json:"url" binding:"required"`
	Marketplace string `json:"marketplace"`
}

type CompareResponse struct {
	Title             string                    `json:"title"`
	Price             *float64                  `json:"price"`
	ImageURL          string                    `json:"image_url,omitempty"`
	ThumbnailImages   []string                  `json:"thumbnail_images"`
	Source            string                    `json:"source"`
	Marketplace       string                    `json:"marketplace"`
	TrackerURL        string                    `json:"tracker_url,omitempty"`
	AlternativesCount int                       `json:"alternatives_count"`
	Alternatives      []models.AlternativeOffer `json:"alternatives"`
	Status            string                    `json:"status"`
	Error             string                    `json:"error,omitempty"`
}

type HistoryEntry struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Marketplace   string   `json:"marketplace"`
	DetectedPrice *float64 `json:"detected_price"`
	Status        string   `json:"status"`
	Timestamp     string   `json:"timestamp"`
}

// Handler carries the collaborators the API layer dispatches to.
type Handler struct {
	Service *buyhatke.PriceComparisonService
	History *buyhatke.HistoryStore
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/api/health", h.Health)
	r.GET("/api/history", h.GetHistory)
	r.POST("/api/compare", h.Compare)
	r.GET("/ws", h.StreamResults)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": "url must be a valid HTTP(S) URL"})
		return
	}
	if buyhatke.DetectMarketplace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": "Unsupported marketplace URL. Allowed: Amazon, Flipkart"})
		return
	}
	marketplace := strings.ToLower(strings.TrimSpace(req.Marketplace))
	if marketplace != "" && !buyhatke.IsSupportedMarketplace(marketplace) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": "Unsupported marketplace. Allowed: amazon, flipkart"})
		return
	}

	result, err := h.Service.Compare(c.Request.Context(), req.URL, marketplace)
	if err != nil {
		c.JSON(statusForError(err), failedResponse(marketplace, err))
		return
	}
	thumbnails := result.ThumbnailImages
	if thumbnails == nil {
		thumbnails = []string{}
	}
	alternatives := result.Alternatives
	if alternatives == nil {
		alternatives = []models.AlternativeOffer{}
	}
	c.JSON(http.StatusOK, CompareResponse{
		Title:             result.Title,
		Price:             result.Price,
		ImageURL:          result.ImageURL,
		ThumbnailImages:   thumbnails,
		Source:            result.Source,
		Marketplace:       result.Marketplace,
		TrackerURL:        result.TrackerURL,
		AlternativesCount: len(alternatives),
		Alternatives:      alternatives,
		Status:            "Success",
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, buyhatke.ErrUnsupportedMarketplace):
		return http.StatusBadRequest
	case errors.Is(err, buyhatke.ErrUpstreamNotFound):
		return http.StatusNotFound
	case errors.Is(err, buyhatke.ErrUpstreamTimeout), errors.Is(err, buyhatke.ErrBotDetected):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func failedResponse(marketplace string, err error) CompareResponse {
	if marketplace == "" {
		marketplace = "unknown"
	}
	return CompareResponse{
		Title:           "N/A",
		ThumbnailImages: []string{},
		Source:          buyhatke.Source,
		Marketplace:     marketplace,
		Alternatives:    []models.AlternativeOffer{},
		Status:          "Failed",
		Error:           err.Error(),
	}
}

func (h *Handler) GetHistory(c *gin.Context) {
	records, err := h.History.Recent(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			ID:            r.ID.Hex(),
			URL:           r.URL,
			Marketplace:   r.Marketplace,
			DetectedPrice: r.DetectedPrice,
			Status:        r.Status,
			Timestamp:     r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, entries)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamResults pushes every recorded comparison attempt to the client as it
// completes.
func (h *Handler) StreamResults(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case rec := <-h.Service.Results:
			if err := conn.WriteJSON(rec); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
