// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
	"github.com/pdiddy/appraisal-engine/internal/decode"
	"github.com/pdiddy/appraisal-engine/internal/export"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// appraisalResponse pairs the record with the engine's recomputation.
type appraisalResponse struct {
	Appraisal *types.Appraisal `json:"appraisal"`
	Scoring   scoring.Result   `json:"scoring"`
	StoredAt  time.Time        `json:"stored_at"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analyze(c *gin.Context) {
	apiKey := c.GetHeader(APIKeyHeader)
	if apiKey == "" {
		apiKey = s.defaultKey
	}
	if apiKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key: set the " + APIKeyHeader + " header"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	rec, err := s.analyzer.Analyze(c.Request.Context(), file, apiKey)
	if err != nil {
		s.logger.Warn("server.analyze.failed", "req_id", c.GetString("req_id"), "file", fh.Filename, "error", err)
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	at := s.session.Replace(rec)
	c.JSON(http.StatusOK, appraisalResponse{Appraisal: rec, Scoring: scoring.Recompute(rec), StoredAt: at})
}

func (s *Server) current(c *gin.Context) {
	rec, at, ok := s.session.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no appraisal in session"})
		return
	}
	c.JSON(http.StatusOK, appraisalResponse{Appraisal: rec, Scoring: scoring.Recompute(rec), StoredAt: at})
}

func (s *Server) clear(c *gin.Context) {
	s.session.Clear()
	c.Status(http.StatusNoContent)
}

func (s *Server) export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, _, ok := s.session.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no appraisal in session"})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(format, &buf, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// errorResponse maps a pipeline failure to a status and JSON body.
func errorResponse(err error) (int, gin.H) {
	body := gin.H{"error": err.Error()}
	kind, ok := appraise.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, body
	}
	body["kind"] = kind

	var ve *decode.ValidationError
	if errors.As(err, &ve) {
		body["path"] = ve.Path
	}
	var de *decode.DecodeError
	if errors.As(err, &de) {
		body["excerpt"] = de.Excerpt
	}

	switch kind {
	case appraise.KindNoExtractableText, appraise.KindUnreadableDocument:
		return http.StatusUnprocessableEntity, body
	default:
		return http.StatusBadGateway, body
	}
}
