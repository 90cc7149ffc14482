package services

import (
	"time"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// The inquiry lifecycle runs pending → reviewed → quoted → accepted/rejected,
// with completed reachable via an explicit admin action and rejected reachable
// from any non-terminal state. Transitions are deliberately NOT restricted to
// that happy path: staff can move an inquiry to any known status, including
// re-opening one that was rejected or completed. Only unknown status values
// are refused.

// TransitionInquiry applies a status change to inq in place. adminNotes
// overwrites whatever notes were there before. Moving to reviewed or quoted
// stamps the matching timestamp; repeating a transition re-stamps it.
func TransitionInquiry(inq *models.Inquiry, newStatus models.InquiryStatus, adminNotes string, now time.Time) error {
	if !newStatus.Valid() {
		return &apperrors.InvalidStatusError{Status: string(newStatus)}
	}
	if len(adminNotes) > MaxAdminNotesLen {
		return apperrors.Validationf("adminNotes", "admin notes cannot exceed %d characters", MaxAdminNotesLen)
	}

	inq.Status = newStatus
	inq.AdminNotes = adminNotes
	inq.UpdatedAt = now

	switch newStatus {
	case models.InquiryStatusReviewed:
		t := now
		inq.ReviewedAt = &t
	case models.InquiryStatusQuoted:
		t := now
		inq.QuotedAt = &t
	}

	return nil
}

// ApplyQuote attaches a quote to inq and forces it into the quoted status,
// whatever status it held before. Quoting straight from pending skips the
// reviewed step entirely, and quoting a rejected inquiry re-opens it. That
// shortcut matches how staff actually work a queue.
func ApplyQuote(inq *models.Inquiry, finalPrice float64, validUntil *time.Time, terms string, now time.Time) error {
	if finalPrice < 0 {
		return apperrors.Validationf("quote.finalPrice", "final price cannot be negative")
	}

	inq.Quote = &models.Quote{
		FinalPrice: finalPrice,
		ValidUntil: validUntil,
		Terms:      terms,
	}
	inq.Status = models.InquiryStatusQuoted
	t := now
	inq.QuotedAt = &t
	inq.UpdatedAt = now

	return nil
}
