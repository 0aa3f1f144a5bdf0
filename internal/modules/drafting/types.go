package drafting

import "github.com/postflow/core/internal/models"

type CreateDraftDTO struct {
	Idea     string          `json:"idea"     binding:"required"`
	Platform models.Platform `json:"platform" binding:"required"`
	Tone     models.Tone     `json:"tone"     binding:"required"`
	Length   models.Length   `json:"length"   binding:"required"`
}

type RefineDraftDTO struct {
	Instruction string `json:"instruction" binding:"required"`
}

type previewResponse struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}
