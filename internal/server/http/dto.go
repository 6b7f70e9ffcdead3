package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps request bodies read by bindRequest.
const maxBodyBytes = 1 << 20

type (
	RegisterRequest = validation.Registration
	LoginRequest    = validation.Login
)

type normalizer interface {
	Normalize()
}

// bindRequest decodes the JSON body into req, normalizes it and validates
// it. On failure it returns the field errors to report.
func bindRequest(c *gin.Context, req normalizer) []FieldError {
	if c.Request.Body == nil {
		return []FieldError{{Field: "body", Message: "Request body must be valid JSON"}}
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return []FieldError{{Field: "body", Message: "Request body is too large"}}
		}
		return []FieldError{{Field: "body", Message: "Request body must be valid JSON"}}
	}

	req.Normalize()

	return validation.Check(req)
}
