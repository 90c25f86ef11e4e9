package converter

import (
	"time"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// BookingToResponse converts a BookingRequest entity to BookingResponse DTO.
// Line items are included when loaded.
func BookingToResponse(booking *entity.BookingRequest) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                 booking.ID,
		ReferenceNumber:    booking.ReferenceNumber,
		UserID:             booking.UserID,
		Status:             string(booking.Status),
		ProjectDescription: booking.ProjectDescription,
		PreferredStartDate: formatDate(booking.PreferredStartDate),
		PreferredEndDate:   formatDate(booking.PreferredEndDate),
		Notes:              booking.Notes,
		BillingName:        booking.BillingName,
		BillingEmail:       booking.BillingEmail,
		BillingAddress:     booking.BillingAddress,
		BillingPhone:       booking.BillingPhone,
		TotalAmount:        booking.TotalAmount,
		ReviewNotes:        booking.ReviewNotes,
		ReviewedBy:         booking.ReviewedBy,
		ReviewedAt:         booking.ReviewedAt,
		SubmittedAt:        booking.SubmittedAt,
		CompletedAt:        booking.CompletedAt,
		CancelledAt:        booking.CancelledAt,
		CancellationReason: booking.CancellationReason,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	for i := range booking.ServiceItems {
		response.ServiceItems = append(response.ServiceItems, ServiceItemToResponse(&booking.ServiceItems[i]))
	}
	for i := range booking.WorkspaceBookings {
		response.WorkspaceBookings = append(response.WorkspaceBookings, WorkspaceBookingToResponse(&booking.WorkspaceBookings[i]))
	}

	return response
}

// BookingsToResponses converts a slice of BookingRequest entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.BookingRequest) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

func ServiceItemToResponse(item *entity.ServiceItem) dto.ServiceItemResponse {
	response := dto.ServiceItemResponse{
		ID:               item.ID,
		ServiceID:        item.ServiceID,
		ServiceName:      item.Service.Name,
		PricingMode:      string(item.PricingMode),
		Quantity:         item.Quantity,
		DurationMonths:   item.DurationMonths,
		UnitPrice:        item.UnitPrice,
		TotalPrice:       item.TotalPrice,
		SampleName:       item.SampleName,
		SampleType:       item.SampleType,
		HazardClass:      item.HazardClass,
		PreparationNotes: item.PreparationNotes,
		EquipmentRefs:    stringList(item.EquipmentRefs),
		AddOns:           AddOnsToResponses(item.AddOns),
	}
	if len(item.Samples) > 0 {
		response.Samples = SamplesToResponses(item.Samples)
	}
	return response
}

func WorkspaceBookingToResponse(ws *entity.WorkspaceBooking) dto.WorkspaceBookingResponse {
	return dto.WorkspaceBookingResponse{
		ID:            ws.ID,
		StartDate:     ws.StartDate.Format(dateLayout),
		EndDate:       ws.EndDate.Format(dateLayout),
		InclusiveDays: ws.InclusiveDays(),
		BilledMonths:  ws.BilledMonths,
		UnitPrice:     ws.UnitPrice,
		TotalPrice:    ws.TotalPrice,
		Purpose:       ws.Purpose,
		EquipmentRefs: stringList(ws.EquipmentRefs),
		AddOns:        AddOnsToResponses(ws.AddOns),
	}
}

func WorkspaceBookingsToResponses(workspaces []entity.WorkspaceBooking) []dto.WorkspaceBookingResponse {
	responses := make([]dto.WorkspaceBookingResponse, len(workspaces))
	for i := range workspaces {
		responses[i] = WorkspaceBookingToResponse(&workspaces[i])
	}
	return responses
}

func AddOnsToResponses(addOns []entity.ServiceAddOn) []dto.AddOnResponse {
	responses := make([]dto.AddOnResponse, len(addOns))
	for i, a := range addOns {
		responses[i] = dto.AddOnResponse{
			ID:                a.ID,
			AddOnID:           a.AddOnID,
			Name:              a.Name,
			Amount:            a.Amount,
			BillingMultiplier: a.BillingMultiplier,
			TotalAmount:       a.TotalAmount,
		}
	}
	return responses
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func stringList(l entity.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}
