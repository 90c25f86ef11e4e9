package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/service"
)

const dateLayout = "2006-01-02"

// draftInput is a SaveDraftRequest with its dates parsed
type draftInput struct {
	PreferredStartDate *time.Time
	PreferredEndDate   *time.Time
	LineItems          service.DraftLineItems
}

// parseDraft checks what must hold for any saved draft: parseable dates,
// ordered preferred dates and valid workspace ranges
func parseDraft(req *dto.SaveDraftRequest) (*draftInput, error) {
	fields := map[string]string{}
	in := &draftInput{}

	in.PreferredStartDate = parseOptionalDate(req.PreferredStartDate, "preferred_start_date", fields)
	in.PreferredEndDate = parseOptionalDate(req.PreferredEndDate, "preferred_end_date", fields)
	if in.PreferredStartDate != nil && in.PreferredEndDate != nil && in.PreferredEndDate.Before(*in.PreferredStartDate) {
		fields["preferred_end_date"] = "preferred_end_date must not be before preferred_start_date"
	}

	for i, item := range req.ServiceItems {
		if item.Quantity < 0 {
			fields[fmt.Sprintf("service_items[%d].quantity", i)] = "quantity must not be negative"
		}
		if item.DurationMonths < 0 {
			fields[fmt.Sprintf("service_items[%d].duration_months", i)] = "duration_months must not be negative"
		}
		in.LineItems.ServiceItems = append(in.LineItems.ServiceItems, service.DraftServiceItem{
			ID:               item.ID,
			ServiceID:        item.ServiceID,
			Quantity:         item.Quantity,
			DurationMonths:   item.DurationMonths,
			SampleName:       strings.TrimSpace(item.SampleName),
			SampleType:       strings.TrimSpace(item.SampleType),
			HazardClass:      strings.TrimSpace(item.HazardClass),
			PreparationNotes: item.PreparationNotes,
			EquipmentRefs:    item.EquipmentRefs,
			AddOnIDs:         item.AddOnIDs,
		})
	}

	for i, ws := range req.WorkspaceBookings {
		prefix := fmt.Sprintf("workspace_bookings[%d]", i)
		start, startErr := time.Parse(dateLayout, ws.StartDate)
		if startErr != nil {
			fields[prefix+".start_date"] = ErrInvalidDateFormat.Error()
		}
		end, endErr := time.Parse(dateLayout, ws.EndDate)
		if endErr != nil {
			fields[prefix+".end_date"] = ErrInvalidDateFormat.Error()
		}
		if startErr == nil && endErr == nil {
			if err := entity.ValidateWorkspaceDates(start, end); err != nil {
				fields[prefix+".end_date"] = err.Error()
			}
		}
		in.LineItems.WorkspaceBookings = append(in.LineItems.WorkspaceBookings, service.DraftWorkspaceBooking{
			ID:            ws.ID,
			StartDate:     start,
			EndDate:       end,
			Purpose:       strings.TrimSpace(ws.Purpose),
			EquipmentRefs: ws.EquipmentRefs,
			AddOnIDs:      ws.AddOnIDs,
		})
	}

	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}
	return in, nil
}

// validateSubmission adds the checks a booking must pass before review:
// complete billing details, a project description and at least one line item
func validateSubmission(req *dto.SaveDraftRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(req.ProjectDescription) == "" {
		fields["project_description"] = "project_description is required"
	}
	if strings.TrimSpace(req.BillingName) == "" {
		fields["billing_name"] = "billing_name is required"
	}
	if strings.TrimSpace(req.BillingEmail) == "" {
		fields["billing_email"] = "billing_email is required"
	}
	if strings.TrimSpace(req.BillingAddress) == "" {
		fields["billing_address"] = "billing_address is required"
	}
	if len(req.ServiceItems) == 0 && len(req.WorkspaceBookings) == 0 {
		fields["line_items"] = "at least one service item or workspace booking is required"
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// mergeValidation combines two validation failures so the caller sees every field at once
func mergeValidation(errs ...error) error {
	fields := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve.Fields {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return NewValidationError(fields)
}

// normalizationError turns line-item failures caused by customer input into a
// ValidationError. Pricing gaps and persistence errors pass through unchanged.
func normalizationError(err error) error {
	var pricingErr *service.PricingMissingError
	if errors.As(err, &pricingErr) {
		return err
	}
	var lineErr *service.LineItemError
	if errors.As(err, &lineErr) {
		return NewValidationError(map[string]string{lineErr.FieldPath(): lineErr.Err.Error()})
	}
	return err
}

func parseOptionalDate(value, field string, fields map[string]string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		fields[field] = ErrInvalidDateFormat.Error()
		return nil
	}
	return &t
}

// applyDraftFields copies the editable business fields onto the booking
func applyDraftFields(booking *entity.BookingRequest, req *dto.SaveDraftRequest, in *draftInput) {
	booking.ProjectDescription = strings.TrimSpace(req.ProjectDescription)
	booking.PreferredStartDate = in.PreferredStartDate
	booking.PreferredEndDate = in.PreferredEndDate
	booking.Notes = req.Notes
	booking.BillingName = strings.TrimSpace(req.BillingName)
	booking.BillingEmail = strings.TrimSpace(req.BillingEmail)
	booking.BillingAddress = strings.TrimSpace(req.BillingAddress)
	booking.BillingPhone = strings.TrimSpace(req.BillingPhone)
}
