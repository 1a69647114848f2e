package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/mitigation"
	"github.com/mr1hm/go-impact-risk/internal/models"
)

const defaultDensityKgM3 = 300

type asteroidRequest struct {
	DiameterM   *float64 `json:"diameter_m" binding:"required"`
	VelocityKmS *float64 `json:"velocity_kms" binding:"required"`
	AngleDeg    float64  `json:"angle_deg" binding:"min=0,max=90"`
	DensityKgM3 *float64 `json:"density_kg_m3"`
}

func (r asteroidRequest) params() models.AsteroidParameters {
	density := float64(defaultDensityKgM3)
	if r.DensityKgM3 != nil {
		density = *r.DensityKgM3
	}
	return models.AsteroidParameters{
		DiameterM:   *r.DiameterM,
		VelocityKmS: *r.VelocityKmS,
		AngleDeg:    r.AngleDeg,
		DensityKgM3: density,
	}
}

type assessmentRequest struct {
	asteroidRequest
	SiteID string `json:"site_id" binding:"required"`
}

type saveResultRequest struct {
	assessmentRequest
	Label string `json:"label" binding:"max=200"`
}

type evaluateRequest struct {
	BudgetM        float64 `json:"budget_m" binding:"gte=0"`
	LeadTimeMonths float64 `json:"lead_time_months" binding:"gte=0"`
}

type hoursRequest struct {
	Hours *float64 `json:"hours" binding:"required"`
}

var registerFieldNames sync.Once

// useJSONFieldNames makes validator report json names ("diameter_m")
// rather than Go field names in its errors.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// validationMessage turns binding and engine input errors into a message a
// form can show next to the offending field.
func validationMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field(), fmt.Sprintf("%s is required", fe.Field())
		case "min", "gte":
			return fe.Field(), fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte":
			return fe.Field(), fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		default:
			return fe.Field(), fmt.Sprintf("%s is invalid", fe.Field())
		}
	}

	var invalid *impact.InvalidParameterError
	if errors.As(err, &invalid) {
		return invalid.Field, fmt.Sprintf("%s %s", invalid.Field, invalid.Reason)
	}
	var constraint *mitigation.InvalidConstraintError
	if errors.As(err, &constraint) {
		return constraint.Field, fmt.Sprintf("%s must be non-negative", constraint.Field)
	}

	return "", "invalid request body"
}
