package form

import "github.com/daryltucker/diabetes-check/internal/model"

// Session is what the report flow needs from the last prediction.
// It is owned by a Controller and written only by Submit.
type Session struct {
	Input       model.PredictionRequest
	Label       string
	Probability float64
}

// Ready reports whether a prediction has completed successfully.
func (s Session) Ready() bool {
	return s.Input != nil && s.Label != ""
}

// ReportRequest builds the /api/download-report body.
func (s Session) ReportRequest() model.ReportRequest {
	return model.ReportRequest{
		InputData:   s.Input,
		Label:       s.Label,
		Probability: s.Probability,
	}
}
