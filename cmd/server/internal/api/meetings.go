package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/cmd/server/internal/detection"
	"github.com/recapd/recapd/cmd/server/internal/promptgen"
	"github.com/recapd/recapd/cmd/server/internal/provider"
	"github.com/recapd/recapd/pkg/logger"
)

// DetectResponse is returned by the detect endpoint: the classification
// plus the assembled instruction document, without calling the
// provider.
type DetectResponse struct {
	Detection    *detection.Result `json:"detection"`
	Prompt       string            `json:"prompt"`
	PromptLength int               `json:"prompt_length"`
}

// AnalyzeResponse adds the provider completion to the detection result.
type AnalyzeResponse struct {
	Detection  *detection.Result `json:"detection"`
	Completion string            `json:"completion"`
}

// HandleDetectMeeting POST /api/v1/meetings/detect
// Runs classification and prompt assembly only; nothing leaves the
// process.
func HandleDetectMeeting(engine *detection.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, result, snap, ok := detectFromRequest(c, engine)
		if !ok {
			return
		}

		doc := assemble(snap, rec, result)
		c.JSON(http.StatusOK, DetectResponse{
			Detection:    result,
			Prompt:       doc,
			PromptLength: len(doc),
		})
	}
}

// HandleAnalyzeMeeting POST /api/v1/meetings/analyze
// Runs the full pipeline including the generative-model call.
func HandleAnalyzeMeeting(engine *detection.Engine, submitter provider.Submitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, result, snap, ok := detectFromRequest(c, engine)
		if !ok {
			return
		}

		doc := assemble(snap, rec, result)
		completion, err := submitter.Submit(c.Request.Context(), promptgen.SystemInstruction, doc, result.Tier)
		if err != nil {
			logger.L().Error("provider call failed", "tier", result.Tier, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, AnalyzeResponse{
			Detection:  result,
			Completion: completion,
		})
	}
}

// detectFromRequest binds, validates and classifies the incoming
// record. On failure it writes the client error and returns ok=false.
func detectFromRequest(c *gin.Context, engine *detection.Engine) (*detection.MeetingRecord, *detection.Result, *catalog.Snapshot, bool) {
	var rec detection.MeetingRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting record: " + err.Error()})
		return nil, nil, nil, false
	}

	result, snap, err := engine.Detect(&rec)
	if err != nil {
		if errors.Is(err, detection.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, nil, nil, false
	}
	return &rec, result, snap, true
}

func assemble(snap *catalog.Snapshot, rec *detection.MeetingRecord, result *detection.Result) string {
	ws, _ := snap.Workspace(result.WorkspaceID)
	return promptgen.Assemble(snap, ws, rec, result.ModuleSelection)
}
