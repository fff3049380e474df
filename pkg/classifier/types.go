package classifier

import (
	"strings"
	"time"
)

// PredictRequest is the body POSTed to the classification service.
type PredictRequest struct {
	Message string `json:"message"`
}

// PredictResponse is the body of a successful classification.
type PredictResponse struct {
	Prediction string `json:"prediction"`
}

// Prediction is a label returned for one message.
type Prediction struct {
	Label     string
	Message   string
	RequestID string
	Latency   time.Duration
}

// Display returns the label the way it is shown to the user.
func (p Prediction) Display() string {
	return strings.ToUpper(p.Label)
}

// IsSpam reports whether the service labelled the message as spam.
func (p Prediction) IsSpam() bool {
	return strings.EqualFold(strings.TrimSpace(p.Label), "spam")
}
