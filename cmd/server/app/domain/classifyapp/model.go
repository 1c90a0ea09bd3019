package classifyapp

import (
	"encoding/json"
	"time"

	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/sdk/spice"
)

type result struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Description string             `json:"description"`
	Predictions map[string]float32 `json:"predictions"`
	CreatedDate time.Time          `json:"createdDate"`
}

// Encode implements the encoder interface.
func (r result) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func toAppResult(res results.Result) result {
	predictions := make(map[string]float32, spice.NumClasses)
	for _, class := range spice.Classes() {
		predictions[class.String()] = res.Prediction.Distribution[class]
	}

	return result{
		ID:          res.ID.String(),
		Model:       res.Model,
		Class:       res.Prediction.Class.String(),
		Confidence:  res.Prediction.Confidence,
		Description: res.Description,
		Predictions: predictions,
		CreatedDate: res.CreatedDate,
	}
}
