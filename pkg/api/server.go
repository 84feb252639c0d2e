// Package api provides the REST API server for the FCB1010 preset editor
package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fcbtools/fcb1010/pkg/preset"
	"github.com/fcbtools/fcb1010/pkg/sheet"
)

// @title FCB1010 Preset API
// @version 1.0
// @description API for editing FCB1010 presets and exchanging them as JSON or CSV
// @host localhost:8080
// @BasePath /api/v1

// Server owns an in-memory preset bank behind a mutex. The preset core is
// lock-free; serializing concurrent editors is the host's job.
type Server struct {
	mu   sync.Mutex
	bank *preset.Bank
}

// NewServer wraps a bank; a nil bank starts empty
func NewServer(bank *preset.Bank) *Server {
	if bank == nil {
		bank = preset.NewBank()
	}
	return &Server{bank: bank}
}

// StartServer starts the API server on the specified port
func StartServer(port int, bank *preset.Bank) error {
	return NewServer(bank).Router().Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine with all routes mounted
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/presets", s.listPresets)
		v1.POST("/presets", s.createPreset)
		v1.GET("/presets/:index", s.getPreset)
		v1.DELETE("/presets/:index", s.deletePreset)
		v1.POST("/presets/:index/program-changes", s.addProgramChange)
		v1.POST("/presets/:index/control-changes", s.addControlChange)
		v1.GET("/presets/:index/wire", s.presetWireBytes)
		v1.GET("/export/csv", s.exportCSV)
		v1.POST("/import/csv", s.importCSV)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fcb1010",
	})
}

// listPresets godoc
// @Summary List all presets as documents
// @Tags presets
// @Produce json
// @Success 200 {array} preset.Document
// @Router /api/v1/presets [get]
func (s *Server) listPresets(c *gin.Context) {
	s.mu.Lock()
	docs := s.bank.ToDocuments()
	s.mu.Unlock()
	c.JSON(http.StatusOK, docs)
}

// createPreset godoc
// @Summary Create a preset from a document
// @Description A document without preset_number gets the next free slot
// @Tags presets
// @Accept json
// @Produce json
// @Success 201 {object} preset.Document
// @Failure 400 {object} map[string]string
// @Router /api/v1/presets [post]
func (s *Server) createPreset(c *gin.Context) {
	var doc preset.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset document"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.PresetNumber == nil {
		n := s.bank.NextFreeNumber()
		if n < 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "all preset slots are in use"})
			return
		}
		doc.PresetNumber = &n
	}

	p, err := preset.FromDocument(doc)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	s.bank.Add(p)
	c.JSON(http.StatusCreated, p.ToDocument())
}

// getPreset godoc
// @Summary Get one preset by bank index
// @Tags presets
// @Produce json
// @Success 200 {object} preset.Document
// @Failure 404 {object} map[string]string
// @Router /api/v1/presets/{index} [get]
func (s *Server) getPreset(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presetAt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.ToDocument())
}

// deletePreset godoc
// @Summary Delete a preset by bank index
// @Tags presets
// @Produce json
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/presets/{index} [delete]
func (s *Server) deletePreset(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset index"})
		return
	}
	if err := s.bank.Remove(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type programChangeRequest struct {
	Program int `json:"program"`
	Channel int `json:"channel"`
}

// addProgramChange godoc
// @Summary Append a program change to a preset
// @Tags presets
// @Accept json
// @Produce json
// @Success 200 {object} preset.Document
// @Failure 400 {object} map[string]string
// @Router /api/v1/presets/{index}/program-changes [post]
func (s *Server) addProgramChange(c *gin.Context) {
	var req programChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program change"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presetAt(c)
	if !ok {
		return
	}
	if err := p.AddProgramChange(req.Program, req.Channel); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p.ToDocument())
}

type controlChangeRequest struct {
	Controller int `json:"controller"`
	Value      int `json:"value"`
	Channel    int `json:"channel"`
}

// addControlChange godoc
// @Summary Append a control change to a preset
// @Tags presets
// @Accept json
// @Produce json
// @Success 200 {object} preset.Document
// @Failure 400 {object} map[string]string
// @Router /api/v1/presets/{index}/control-changes [post]
func (s *Server) addControlChange(c *gin.Context) {
	var req controlChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control change"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presetAt(c)
	if !ok {
		return
	}
	if err := p.AddControlChange(req.Controller, req.Value, req.Channel); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p.ToDocument())
}

// presetWireBytes godoc
// @Summary Encode a preset's events to MIDI wire bytes
// @Description Returns each channel-voice message as a hex string, in transmission order
// @Tags presets
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/presets/{index}/wire [get]
func (s *Server) presetWireBytes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presetAt(c)
	if !ok {
		return
	}

	events := p.Events()
	messages := make([]string, 0, len(events))
	for _, ev := range events {
		messages = append(messages, hex.EncodeToString(ev.Encode()))
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// exportCSV godoc
// @Summary Download the bank as a CSV sheet
// @Tags exchange
// @Produce text/csv
// @Success 200 {file} binary
// @Router /api/v1/export/csv [get]
func (s *Server) exportCSV(c *gin.Context) {
	s.mu.Lock()
	data, err := marshalCSV(sheet.Export(s.bank))
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=presets.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// importCSV godoc
// @Summary Upload a CSV sheet and replace the bank
// @Description Malformed rows are skipped and reported, not fatal
// @Tags exchange
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/import/csv [post]
func (s *Server) importCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	rows, err := unmarshalCSV(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank, rowErrs := sheet.Import(rows)
	skipped := make([]string, 0, len(rowErrs))
	for _, re := range rowErrs {
		skipped = append(skipped, re.Error())
	}

	s.mu.Lock()
	s.bank = bank
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"imported": bank.Len(),
		"skipped":  skipped,
	})
}

// presetAt parses the :index param and fetches the preset, writing the
// error response itself when the lookup fails
func (s *Server) presetAt(c *gin.Context) (*preset.Preset, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset index"})
		return nil, false
	}
	p := s.bank.At(index)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no preset at index %d", index)})
		return nil, false
	}
	return p, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, preset.ErrOutOfRange),
		errors.Is(err, preset.ErrMissingField),
		errors.Is(err, preset.ErrInvalidRow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
