// Package runstats holds the run-stats domain core: payload validation,
// sample normalization, rolling aggregation, and chart series assembly.
// Nothing in this package touches storage or transport.
package runstats

import "fmt"

// GPU backend values accepted on ingestion.
const (
	GPUBackendMPS   = "mps"
	GPUBackendMetal = "metal"
)

// Compute backend values accepted on ingestion.
const (
	BackendCPU = "cpu"
	BackendMPS = "mps"
	BackendAll = "all"
)

// Field bounds for incoming run records.
const (
	MinSchemaVersion = 1
	MinRunIDLen      = 16
	MaxRunIDLen      = 64
	DeviceIDLen      = 64
	MaxHWModelLen    = 128
	MaxGPUNameLen    = 128
	MaxOSVersionLen  = 128
	MaxAppVersionLen = 64
	MinBatch         = 1
	MaxBatch         = 65536
	MinInflight      = 1
	MaxInflight      = 1024
	MaxElapsedSec    = 31_536_000
	MaxTotalCount    = 1_000_000_000_000_000
	MaxRate          = 1_000_000_000
	MinAvg           = -1000
	MaxAvg           = 1000
)

// RunRecord is one validated benchmark run as reported by a client device.
// Optional fields are nil when absent from the payload. A RunRecord only
// exists after Validate has admitted it; construct test records directly.
type RunRecord struct {
	SchemaVersion int     `json:"schemaVersion"`
	RunID         string  `json:"runId"`
	DeviceID      string  `json:"deviceId"`
	HWModel       *string `json:"hwModel,omitempty"`
	GPUName       *string `json:"gpuName,omitempty"`
	GPUBackend    *string `json:"gpuBackend,omitempty"`
	Backend       string  `json:"backend"`
	OSVersion     string  `json:"osVersion"`
	AppVersion    string  `json:"appVersion"`
	Batch         *int    `json:"batch,omitempty"`
	Inflight      *int    `json:"inflight,omitempty"`
	BatchMin      *int    `json:"batchMin,omitempty"`
	BatchMax      *int    `json:"batchMax,omitempty"`
	InflightMin   *int    `json:"inflightMin,omitempty"`
	InflightMax   *int    `json:"inflightMax,omitempty"`
	AutoBatch     bool    `json:"autoBatch"`
	AutoInflight  bool    `json:"autoInflight"`
	ElapsedSec    float64 `json:"elapsedSec"`
	TotalCount    int64   `json:"totalCount"`
	TotalRate     float64 `json:"totalRate"`
	CPURate       float64 `json:"cpuRate"`
	GPURate       float64 `json:"gpuRate"`
	CPUAvg        float64 `json:"cpuAvg"`
	GPUAvg        float64 `json:"gpuAvg"`
}

// RejectionError describes why a payload was not admitted. Field is the
// offending payload key for schema violations, or empty for payload-level
// problems (malformed JSON, unknown key already names the key in Reason).
type RejectionError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func rejectf(field, format string, args ...any) *RejectionError {
	return &RejectionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
