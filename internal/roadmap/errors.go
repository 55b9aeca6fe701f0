package roadmap

import (
	"errors"
	"fmt"
)

var (
	ErrNilProfile        = errors.New("roadmap: profile is nil")
	ErrIncompleteProfile = errors.New("roadmap: incomplete profile")

	// ErrGatewayDisabled is reported internally when no usable credential was configured.
	ErrGatewayDisabled = errors.New("roadmap: model gateway disabled")
)

// ConfigurationError explains why the model gateway is disabled. It is logged, never returned
// from Generate.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil || e.Reason == "" {
		return "roadmap: configuration error"
	}
	return "roadmap: configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return ErrGatewayDisabled }

type GatewayErrorKind string

const (
	GatewayConnection GatewayErrorKind = "connection"
	GatewayTimeout    GatewayErrorKind = "timeout"
	GatewayAuth       GatewayErrorKind = "auth"
	GatewayRateLimit  GatewayErrorKind = "rate_limit"
	GatewayUpstream   GatewayErrorKind = "upstream"
	GatewayEmpty      GatewayErrorKind = "empty"
)

type GatewayError struct {
	Kind GatewayErrorKind
	Err  error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "roadmap: gateway error"
	}
	if e.Err == nil {
		return fmt.Sprintf("roadmap: gateway %s", e.Kind)
	}
	return fmt.Sprintf("roadmap: gateway %s: %v", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type ParseStage string

const (
	StageNormalize ParseStage = "normalize"
	StageDecode    ParseStage = "decode"
	StageValidate  ParseStage = "validate"
)

// ParseError means model output could not be turned into at least one admitted task.
type ParseError struct {
	Stage ParseStage
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "roadmap: parse error"
	}
	if e.Err == nil {
		return fmt.Sprintf("roadmap: parse error at %s", e.Stage)
	}
	return fmt.Sprintf("roadmap: parse error at %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DropReason names the hard constraint a candidate task failed.
type DropReason string

const (
	DropNotObject       DropReason = "not_object"
	DropMissingField    DropReason = "missing_field"
	DropShortTitle      DropReason = "short_title"
	DropShortDesc       DropReason = "short_description"
	DropHoursInvalid    DropReason = "hours_invalid"
	DropHoursOutOfRange DropReason = "hours_out_of_range"
)
