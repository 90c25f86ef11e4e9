package converter

import (
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
)

func DocumentToResponse(doc *entity.BookingDocument) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:                 doc.ID,
		BookingRequestID:   doc.BookingRequestID,
		Type:               string(doc.Type),
		FileName:           doc.FileName,
		FileURL:            doc.FileURL,
		UploadedBy:         doc.UploadedBy,
		VerificationStatus: string(doc.VerificationStatus),
		VerifiedBy:         doc.VerifiedBy,
		VerifiedAt:         doc.VerifiedAt,
		RejectionReason:    doc.RejectionReason,
		CreatedAt:          doc.CreatedAt,
	}
}

func DocumentsToResponses(docs []entity.BookingDocument) []dto.DocumentResponse {
	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = DocumentToResponse(&docs[i])
	}
	return responses
}

func DocumentTypesToStrings(types []entity.DocumentType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
