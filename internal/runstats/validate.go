package runstats

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

var (
	runIDPattern    = regexp.MustCompile(`^[0-9a-fA-F-]{16,64}$`)
	deviceIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// ErrMalformedPayload is returned when the payload is not a JSON object.
var ErrMalformedPayload = errors.New("payload is not a valid JSON object")

// rawRecord mirrors the wire schema with every field optional so that
// presence can be checked explicitly before bounds are applied.
type rawRecord struct {
	SchemaVersion *int     `json:"schemaVersion"`
	RunID         *string  `json:"runId"`
	DeviceID      *string  `json:"deviceId"`
	HWModel       *string  `json:"hwModel"`
	GPUName       *string  `json:"gpuName"`
	GPUBackend    *string  `json:"gpuBackend"`
	Backend       *string  `json:"backend"`
	OSVersion     *string  `json:"osVersion"`
	AppVersion    *string  `json:"appVersion"`
	Batch         *int     `json:"batch"`
	Inflight      *int     `json:"inflight"`
	BatchMin      *int     `json:"batchMin"`
	BatchMax      *int     `json:"batchMax"`
	InflightMin   *int     `json:"inflightMin"`
	InflightMax   *int     `json:"inflightMax"`
	AutoBatch     *bool    `json:"autoBatch"`
	AutoInflight  *bool    `json:"autoInflight"`
	ElapsedSec    *float64 `json:"elapsedSec"`
	TotalCount    *int64   `json:"totalCount"`
	TotalRate     *float64 `json:"totalRate"`
	CPURate       *float64 `json:"cpuRate"`
	GPURate       *float64 `json:"gpuRate"`
	CPUAvg        *float64 `json:"cpuAvg"`
	GPUAvg        *float64 `json:"gpuAvg"`
}

// fieldCheck validates and normalizes one payload field in place.
type fieldCheck struct {
	field string
	check func(*rawRecord) *RejectionError
}

// invariantCheck is a named cross-field rule evaluated against the
// normalized candidate after every field check has passed.
type invariantCheck struct {
	rule  string
	check func(*RunRecord) bool
}

// Validate decides whether a raw incoming payload is admissible.
// It returns the normalized record, or a *RejectionError describing the
// first violated constraint. Validation never touches storage and is
// idempotent: validating the serialized result again yields the same
// record.
func Validate(payload []byte) (*RunRecord, error) {
	raw, decodeErr := decodeStrict(payload)
	if decodeErr != nil {
		return nil, decodeErr
	}

	for _, fc := range fieldChecks {
		rejection := fc.check(raw)
		if rejection != nil {
			return nil, rejection
		}
	}

	candidate := normalize(raw)

	for _, ic := range invariantChecks {
		if !ic.check(candidate) {
			return nil, &RejectionError{Reason: ic.rule}
		}
	}

	return candidate, nil
}

// decodeStrict unmarshals the payload with the closed-schema rule: any key
// outside the RunRecord schema rejects the whole payload.
func decodeStrict(payload []byte) (*rawRecord, *RejectionError) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var raw rawRecord

	err := dec.Decode(&raw)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, rejectf(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}

		if name, ok := strings.CutPrefix(err.Error(), `json: unknown field `); ok {
			return nil, rejectf(strings.Trim(name, `"`), "unknown field")
		}

		return nil, &RejectionError{Reason: ErrMalformedPayload.Error()}
	}

	// Reject trailing garbage after the object.
	var extra json.RawMessage
	if dec.Decode(&extra) != io.EOF {
		return nil, &RejectionError{Reason: ErrMalformedPayload.Error()}
	}

	return &raw, nil
}

// fieldChecks is the ordered per-field constraint table (phase one).
var fieldChecks = []fieldCheck{
	{"schemaVersion", func(r *rawRecord) *RejectionError {
		return requiredIntMin(r.SchemaVersion, "schemaVersion", MinSchemaVersion)
	}},
	{"runId", checkRunID},
	{"deviceId", checkDeviceID},
	{"hwModel", func(r *rawRecord) *RejectionError {
		return optionalStringMax(r.HWModel, "hwModel", MaxHWModelLen)
	}},
	{"gpuName", func(r *rawRecord) *RejectionError {
		return optionalStringMax(r.GPUName, "gpuName", MaxGPUNameLen)
	}},
	{"gpuBackend", func(r *rawRecord) *RejectionError {
		return optionalEnum(r.GPUBackend, "gpuBackend", GPUBackendMPS, GPUBackendMetal)
	}},
	{"backend", func(r *rawRecord) *RejectionError {
		if r.Backend == nil {
			return rejectf("backend", "field is required")
		}

		return optionalEnum(r.Backend, "backend", BackendCPU, BackendMPS, BackendAll)
	}},
	{"osVersion", func(r *rawRecord) *RejectionError {
		return requiredStringMax(r.OSVersion, "osVersion", MaxOSVersionLen)
	}},
	{"appVersion", func(r *rawRecord) *RejectionError {
		return requiredStringMax(r.AppVersion, "appVersion", MaxAppVersionLen)
	}},
	{"batch", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.Batch, "batch", MinBatch, MaxBatch)
	}},
	{"inflight", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.Inflight, "inflight", MinInflight, MaxInflight)
	}},
	{"batchMin", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.BatchMin, "batchMin", MinBatch, MaxBatch)
	}},
	{"batchMax", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.BatchMax, "batchMax", MinBatch, MaxBatch)
	}},
	{"inflightMin", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.InflightMin, "inflightMin", MinInflight, MaxInflight)
	}},
	{"inflightMax", func(r *rawRecord) *RejectionError {
		return optionalIntRange(r.InflightMax, "inflightMax", MinInflight, MaxInflight)
	}},
	{"autoBatch", func(r *rawRecord) *RejectionError {
		return requiredBool(r.AutoBatch, "autoBatch")
	}},
	{"autoInflight", func(r *rawRecord) *RejectionError {
		return requiredBool(r.AutoInflight, "autoInflight")
	}},
	{"elapsedSec", func(r *rawRecord) *RejectionError {
		if r.ElapsedSec == nil {
			return rejectf("elapsedSec", "field is required")
		}

		if *r.ElapsedSec <= 0 || *r.ElapsedSec > MaxElapsedSec {
			return rejectf("elapsedSec", "must be in (0, %d]", MaxElapsedSec)
		}

		return nil
	}},
	{"totalCount", func(r *rawRecord) *RejectionError {
		if r.TotalCount == nil {
			return rejectf("totalCount", "field is required")
		}

		if *r.TotalCount < 0 || *r.TotalCount > MaxTotalCount {
			return rejectf("totalCount", "must be in [0, %d]", int64(MaxTotalCount))
		}

		return nil
	}},
	{"totalRate", func(r *rawRecord) *RejectionError {
		return requiredRate(r.TotalRate, "totalRate")
	}},
	{"cpuRate", func(r *rawRecord) *RejectionError {
		return requiredRate(r.CPURate, "cpuRate")
	}},
	{"gpuRate", func(r *rawRecord) *RejectionError {
		return requiredRate(r.GPURate, "gpuRate")
	}},
	{"cpuAvg", func(r *rawRecord) *RejectionError {
		return requiredAvg(r.CPUAvg, "cpuAvg")
	}},
	{"gpuAvg", func(r *rawRecord) *RejectionError {
		return requiredAvg(r.GPUAvg, "gpuAvg")
	}},
}

// invariantChecks is the fixed ordered cross-field rule list (phase two).
// Each check returns true when the rule holds; absent operands hold
// vacuously.
var invariantChecks = []invariantCheck{
	{"batchMin must be <= batchMax", func(r *RunRecord) bool {
		return r.BatchMin == nil || r.BatchMax == nil || *r.BatchMin <= *r.BatchMax
	}},
	{"inflightMin must be <= inflightMax", func(r *RunRecord) bool {
		return r.InflightMin == nil || r.InflightMax == nil || *r.InflightMin <= *r.InflightMax
	}},
	{"batch must be >= batchMin", func(r *RunRecord) bool {
		return r.Batch == nil || r.BatchMin == nil || *r.Batch >= *r.BatchMin
	}},
	{"batch must be <= batchMax", func(r *RunRecord) bool {
		return r.Batch == nil || r.BatchMax == nil || *r.Batch <= *r.BatchMax
	}},
	{"inflight must be >= inflightMin", func(r *RunRecord) bool {
		return r.Inflight == nil || r.InflightMin == nil || *r.Inflight >= *r.InflightMin
	}},
	{"inflight must be <= inflightMax", func(r *RunRecord) bool {
		return r.Inflight == nil || r.InflightMax == nil || *r.Inflight <= *r.InflightMax
	}},
}

func checkRunID(r *rawRecord) *RejectionError {
	if r.RunID == nil {
		return rejectf("runId", "field is required")
	}

	trimmed := strings.TrimSpace(*r.RunID)
	if !runIDPattern.MatchString(trimmed) {
		return rejectf("runId", "must be %d-%d hex digits and hyphens", MinRunIDLen, MaxRunIDLen)
	}

	*r.RunID = trimmed

	return nil
}

func checkDeviceID(r *rawRecord) *RejectionError {
	if r.DeviceID == nil {
		return rejectf("deviceId", "field is required")
	}

	trimmed := strings.TrimSpace(*r.DeviceID)
	if !deviceIDPattern.MatchString(trimmed) {
		return rejectf("deviceId", "must be exactly %d hex digits", DeviceIDLen)
	}

	*r.DeviceID = strings.ToLower(trimmed)

	return nil
}

func requiredIntMin(v *int, field string, minValue int) *RejectionError {
	if v == nil {
		return rejectf(field, "field is required")
	}

	if *v < minValue {
		return rejectf(field, "must be >= %d", minValue)
	}

	return nil
}

func requiredStringMax(v *string, field string, maxLen int) *RejectionError {
	if v == nil {
		return rejectf(field, "field is required")
	}

	return optionalStringMax(v, field, maxLen)
}

func optionalStringMax(v *string, field string, maxLen int) *RejectionError {
	if v != nil && len(*v) > maxLen {
		return rejectf(field, "must be at most %d characters", maxLen)
	}

	return nil
}

func optionalEnum(v *string, field string, allowed ...string) *RejectionError {
	if v == nil {
		return nil
	}

	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}

	return rejectf(field, "must be one of %s", strings.Join(allowed, "|"))
}

func optionalIntRange(v *int, field string, minValue, maxValue int) *RejectionError {
	if v != nil && (*v < minValue || *v > maxValue) {
		return rejectf(field, "must be in [%d, %d]", minValue, maxValue)
	}

	return nil
}

func requiredBool(v *bool, field string) *RejectionError {
	if v == nil {
		return rejectf(field, "field is required")
	}

	return nil
}

func requiredRate(v *float64, field string) *RejectionError {
	if v == nil {
		return rejectf(field, "field is required")
	}

	if *v < 0 || *v > MaxRate {
		return rejectf(field, "must be in [0, %d]", int64(MaxRate))
	}

	return nil
}

func requiredAvg(v *float64, field string) *RejectionError {
	if v == nil {
		return rejectf(field, "field is required")
	}

	if *v < MinAvg || *v > MaxAvg {
		return rejectf(field, "must be in [%d, %d]", MinAvg, MaxAvg)
	}

	return nil
}

// normalize builds the admitted record from a raw payload whose individual
// fields have all passed. Identifier canonicalization already happened in
// the field checks.
func normalize(r *rawRecord) *RunRecord {
	return &RunRecord{
		SchemaVersion: *r.SchemaVersion,
		RunID:         *r.RunID,
		DeviceID:      *r.DeviceID,
		HWModel:       r.HWModel,
		GPUName:       r.GPUName,
		GPUBackend:    r.GPUBackend,
		Backend:       *r.Backend,
		OSVersion:     *r.OSVersion,
		AppVersion:    *r.AppVersion,
		Batch:         r.Batch,
		Inflight:      r.Inflight,
		BatchMin:      r.BatchMin,
		BatchMax:      r.BatchMax,
		InflightMin:   r.InflightMin,
		InflightMax:   r.InflightMax,
		AutoBatch:     *r.AutoBatch,
		AutoInflight:  *r.AutoInflight,
		ElapsedSec:    *r.ElapsedSec,
		TotalCount:    *r.TotalCount,
		TotalRate:     *r.TotalRate,
		CPURate:       *r.CPURate,
		GPURate:       *r.GPURate,
		CPUAvg:        *r.CPUAvg,
		GPUAvg:        *r.GPUAvg,
	}
}
