package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	donationdomain "github.com/smallbiznis/replate/internal/donation/domain"
	"github.com/smallbiznis/replate/internal/events"
	"github.com/smallbiznis/replate/internal/identity"
	invitationdomain "github.com/smallbiznis/replate/internal/invitation/domain"
	"github.com/smallbiznis/replate/internal/management"
	orgdomain "github.com/smallbiznis/replate/internal/organization/domain"
	pickupjobdomain "github.com/smallbiznis/replate/internal/pickupjob/domain"
	scheduledomain "github.com/smallbiznis/replate/internal/pickupschedule/domain"
	suggestiondomain "github.com/smallbiznis/replate/internal/suggestion/domain"
	userdomain "github.com/smallbiznis/replate/internal/user/domain"
	"github.com/smallbiznis/replate/pkg/db"
	"gorm.io/gorm"
)

// errorResponse is the body of every failed request. Message carries the
// validation detail on 400s.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidJSON    = errors.New("Invalid JSON")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, body := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, body)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorResponse{Error: "Server error"}
	case isValidationError(err):
		return http.StatusBadRequest, errorResponse{Error: "Bad Request", Message: err.Error()}
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorResponse{Error: "Unauthorized"}
	case isForbiddenError(err):
		return http.StatusForbidden, errorResponse{Error: "Forbidden"}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{Error: "Not Found"}
	case errors.Is(err, management.ErrConflict), db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorResponse{Error: "Conflict"}
	case errors.Is(err, management.ErrUpstream):
		return http.StatusBadGateway, errorResponse{Error: "Upstream error"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "Server error"}
	}
}

// classifyErrorForLog feeds the request logger's error_type and error_code fields.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch status {
	case http.StatusBadRequest:
		return "validation_error", err.Error()
	case http.StatusUnauthorized:
		return "unauthorized", "unauthorized"
	case http.StatusForbidden:
		return "forbidden", "forbidden"
	case http.StatusNotFound:
		return "not_found", err.Error()
	case http.StatusConflict:
		return "conflict", "conflict"
	case http.StatusBadGateway:
		return "upstream_error", "upstream_error"
	default:
		return "internal_error", "internal_error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidJSON),
		errors.Is(err, events.ErrInvalidEvent):
		return true
	case isOrganizationValidationError(err),
		isInvitationValidationError(err),
		isPickupJobValidationError(err),
		isScheduleValidationError(err),
		isDonorValidationError(err):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identity.ErrMissingToken),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, donationdomain.ErrMissingSubject),
		errors.Is(err, suggestiondomain.ErrMissingSubject):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, orgdomain.ErrForbidden),
		errors.Is(err, pickupjobdomain.ErrForbidden),
		errors.Is(err, scheduledomain.ErrForbidden):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, pickupjobdomain.ErrNotFound),
		errors.Is(err, scheduledomain.ErrNotFound),
		errors.Is(err, scheduledomain.ErrDeliveryScheduleNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isOrganizationValidationError(err error) bool {
	switch {
	case errors.Is(err, orgdomain.ErrInvalidID),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidDomain),
		errors.Is(err, orgdomain.ErrInvalidOrgType),
		errors.Is(err, orgdomain.ErrInvalidSSOStatus),
		errors.Is(err, userdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isInvitationValidationError(err error) bool {
	switch {
	case errors.Is(err, invitationdomain.ErrInvalidID),
		errors.Is(err, invitationdomain.ErrInvalidTTL),
		errors.Is(err, invitationdomain.ErrInvalidStatus),
		errors.Is(err, invitationdomain.ErrInvalidOrgType):
		return true
	default:
		return false
	}
}

func isPickupJobValidationError(err error) bool {
	switch {
	case errors.Is(err, pickupjobdomain.ErrInvalidID),
		errors.Is(err, pickupjobdomain.ErrInvalidStatus),
		errors.Is(err, pickupjobdomain.ErrInvalidWindow),
		errors.Is(err, pickupjobdomain.ErrInvalidWeight):
		return true
	default:
		return false
	}
}

func isScheduleValidationError(err error) bool {
	switch {
	case errors.Is(err, scheduledomain.ErrInvalidID),
		errors.Is(err, scheduledomain.ErrInvalidCron),
		errors.Is(err, scheduledomain.ErrInvalidTimeOfDay),
		errors.Is(err, scheduledomain.ErrInvalidDuration),
		errors.Is(err, scheduledomain.ErrInvalidWeight):
		return true
	default:
		return false
	}
}

func isDonorValidationError(err error) bool {
	switch {
	case errors.Is(err, donationdomain.ErrInvalidAmount),
		errors.Is(err, donationdomain.ErrInvalidCurrency),
		errors.Is(err, suggestiondomain.ErrInvalidType),
		errors.Is(err, suggestiondomain.ErrNameRequired):
		return true
	default:
		return false
	}
}
