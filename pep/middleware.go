package pep

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/models"
)

// MiddlewareConfig holds configuration for the enforcement middleware
type MiddlewareConfig struct {
	// SkipPaths are request paths enforced without a decision.
	SkipPaths []string `json:"skip_paths"`
	// SubjectHeader carries the subject id of the caller.
	SubjectHeader string `json:"subject_header"`
	// IncludeReasonInResponse echoes the decision in deny responses.
	IncludeReasonInResponse bool `json:"include_reason_in_response"`
}

// DefaultMiddlewareConfig returns default middleware configuration
func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		SubjectHeader: "X-Subject-Id",
	}
}

// Middleware returns a gin handler enforcing decisions on incoming requests:
// the subject header, the HTTP method and the request path become the
// subject, action and resource attributes of a decision request.
func Middleware(service *Service, config *MiddlewareConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}
	return func(c *gin.Context) {
		for _, skip := range config.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, skip) {
				c.Next()
				return
			}
		}

		subject := c.GetHeader(config.SubjectHeader)
		if subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing subject header"})
			return
		}

		req := &models.AuthzRequest{
			Categories: []models.CategoryDoc{
				{
					Category: constants.CategoryAccessSubject,
					Attributes: []models.AttributeDoc{{
						ID:       constants.AttributeSubjectID,
						Datatype: constants.DatatypeString,
						Values:   []string{subject},
					}},
				},
				{
					Category: constants.CategoryAction,
					Attributes: []models.AttributeDoc{{
						ID:       constants.AttributeActionID,
						Datatype: constants.DatatypeString,
						Values:   []string{c.Request.Method},
					}},
				},
				{
					Category: constants.CategoryResource,
					Attributes: []models.AttributeDoc{{
						ID:       constants.AttributeResourceID,
						Datatype: constants.DatatypeString,
						Values:   []string{c.Request.URL.Path},
					}},
				},
			},
		}

		resp := service.Decide(c.Request.Context(), req)
		if resp.Decision != "Permit" {
			body := gin.H{"error": "access denied"}
			if config.IncludeReasonInResponse {
				body["decision"] = resp.Decision
			}
			c.AbortWithStatusJSON(http.StatusForbidden, body)
			return
		}
		c.Next()
	}
}
