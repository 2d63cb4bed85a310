package mlflow

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Статусы прогона MLflow
const (
	StatusRunning  = "RUNNING"
	StatusFinished = "FINISHED"
	StatusFailed   = "FAILED"
)

// ErrRunNotFound прогон с таким идентификатором не существует
var ErrRunNotFound = errors.New("mlflow run does not exist")

// RunInfo сведения о прогоне из runs/get
type RunInfo struct {
	RunID          string `json:"run_id"`
	ExperimentID   string `json:"experiment_id"`
	Status         string `json:"status"`
	LifecycleStage string `json:"lifecycle_stage"`
}

type getRunResponse struct {
	Run struct {
		Info RunInfo `json:"info"`
	} `json:"run"`
}

type updateRunRequest struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	EndTime int64  `json:"end_time,omitempty"`
}

// Metric одна точка метрики для runs/log-batch
type Metric struct {
	Key       string `json:"key"`
	Value     Value  `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Step      int64  `json:"step"`
}

type logBatchRequest struct {
	RunID   string   `json:"run_id"`
	Metrics []Metric `json:"metrics"`
}

// Value число метрики; бесконечности и NaN кодируются строками, как в protobuf JSON
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	switch s := string(data); s {
	case `"Infinity"`:
		*v = Value(math.Inf(1))
	case `"-Infinity"`:
		*v = Value(math.Inf(-1))
	case `"NaN"`:
		*v = Value(math.NaN())
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid metric value %s", s)
		}
		*v = Value(f)
	}
	return nil
}

// APIError ответ MLflow с кодом ошибки
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mlflow: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Code == "RESOURCE_DOES_NOT_EXIST" {
		return ErrRunNotFound
	}
	return nil
}
