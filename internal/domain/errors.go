package domain

import "errors"

var (
	ErrMasterDataMissing = errors.New("master data missing")
	ErrPricingInfeasible = errors.New("pricing infeasible")
	ErrNegativeMargin    = errors.New("negative margin")
	ErrMappingIncomplete = errors.New("mapping incomplete")
	ErrAPICallFailed     = errors.New("marketplace api call failed")
	ErrAPICallTimeout    = errors.New("marketplace api call timed out")
	ErrUnexpectedDefect  = errors.New("unexpected defect")
	ErrBatchCanceled     = errors.New("batch canceled")
)

// Reason is the error kind attached to a non-successful result.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonPricingInfeasible Reason = "PricingInfeasible"
	ReasonNegativeMargin    Reason = "NegativeMargin"
	ReasonMappingIncomplete Reason = "MappingIncomplete"
	ReasonAPICallFailed     Reason = "ApiCallFailed"
	ReasonAPICallTimeout    Reason = "ApiCallTimeout"
	ReasonUnexpectedDefect  Reason = "UnexpectedDefect"
	ReasonBatchCanceled     Reason = "BatchCanceled"
)

// ReasonFor maps a taxonomy error to its reason code.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrPricingInfeasible):
		return ReasonPricingInfeasible
	case errors.Is(err, ErrNegativeMargin):
		return ReasonNegativeMargin
	case errors.Is(err, ErrMappingIncomplete):
		return ReasonMappingIncomplete
	case errors.Is(err, ErrAPICallTimeout):
		return ReasonAPICallTimeout
	case errors.Is(err, ErrAPICallFailed):
		return ReasonAPICallFailed
	case errors.Is(err, ErrBatchCanceled):
		return ReasonBatchCanceled
	default:
		return ReasonUnexpectedDefect
	}
}
