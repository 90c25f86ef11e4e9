package converter

import (
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
)

func SampleToResponse(sample *entity.SampleTracking) dto.SampleResponse {
	return dto.SampleResponse{
		ID:                  sample.ID,
		ServiceItemID:       sample.ServiceItemID,
		BookingRequestID:    sample.BookingRequestID,
		SampleCode:          sample.SampleCode,
		Status:              string(sample.Status),
		Notes:               sample.Notes,
		ReceivedAt:          sample.ReceivedAt,
		AnalysisStartedAt:   sample.AnalysisStartedAt,
		AnalysisCompletedAt: sample.AnalysisCompletedAt,
		ReturnRequestedAt:   sample.ReturnRequestedAt,
		ReturnedAt:          sample.ReturnedAt,
		UpdatedAt:           sample.UpdatedAt,
	}
}

func SamplesToResponses(samples []entity.SampleTracking) []dto.SampleResponse {
	responses := make([]dto.SampleResponse, len(samples))
	for i := range samples {
		responses[i] = SampleToResponse(&samples[i])
	}
	return responses
}
