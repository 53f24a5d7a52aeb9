package server

import (
	"errors"
	"image"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/metrics"
	"github.com/ironsheep/card-vision/internal/pipeline"
)

const (
	// DefaultMaxBodyBytes caps /api/recognize bodies.
	DefaultMaxBodyBytes = 32 << 20
	// MaxFrameScale bounds uploaded frames to this multiple of the
	// calibrated extent in each dimension.
	MaxFrameScale = 2
)

type recognizeRequest struct {
	// Image is a base64 PNG, JPEG or GIF, optionally as a data URL.
	Image string `json:"image" binding:"required"`
	// Decide also judges the recognized hand.
	Decide bool `json:"decide"`
}

type recognizeResponse struct {
	Frame    pipeline.Result `json:"frame"`
	Decision *decideResult   `json:"decision,omitempty"`
}

// Router returns the HTTP API. rec may be nil, in which case /metrics
// answers 404.
func (s *Server) Router(rec *metrics.Recorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/api/library", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": s.libraryInfo()})
	})
	r.POST("/api/recognize", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
		var req recognizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		img, err := imaging.DecodeBase64Max(req.Image, s.maxFrame())
		if errors.Is(err, imaging.ErrImageTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image: " + err.Error()})
			return
		}
		res := s.pipeline.Recognize(img)
		resp := recognizeResponse{Frame: res}
		if req.Decide {
			d := s.decide(decideArgs{
				HoleCards:      cards.Labels(res.Hand.HoleCards),
				CommunityCards: cards.Labels(res.Hand.Community),
			})
			resp.Decision = &d
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	})
	r.POST("/api/decide", func(c *gin.Context) {
		var req decideArgs
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": s.decide(req)})
	})
	r.GET("/metrics", gin.WrapH(rec.Handler()))

	return r
}

// maxFrame is the largest frame worth decoding for the calibrated table.
func (s *Server) maxFrame() image.Point {
	return s.pipeline.Calibration().Extent().Mul(MaxFrameScale)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}
