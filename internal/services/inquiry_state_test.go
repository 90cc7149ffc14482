package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

func pendingInquiry() *models.Inquiry {
	return &models.Inquiry{Status: models.InquiryStatusPending}
}

func TestTransitionInquiry_UnknownStatusRejected(t *testing.T) {
	inq := pendingInquiry()
	err := TransitionInquiry(inq, "archived", "", time.Now().UTC())
	require.Error(t, err)
	var statusErr *apperrors.InvalidStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "archived", statusErr.Status)
	// The inquiry is untouched on failure
	assert.Equal(t, models.InquiryStatusPending, inq.Status)
}

func TestTransitionInquiry_AnyKnownStatusAllowed(t *testing.T) {
	// The lifecycle is advisory: staff can move an inquiry between any two
	// known statuses, including re-opening a rejected one.
	transitions := []struct {
		from models.InquiryStatus
		to   models.InquiryStatus
	}{
		{models.InquiryStatusPending, models.InquiryStatusQuoted},
		{models.InquiryStatusRejected, models.InquiryStatusPending},
		{models.InquiryStatusCompleted, models.InquiryStatusReviewed},
		{models.InquiryStatusAccepted, models.InquiryStatusRejected},
	}
	for _, tr := range transitions {
		inq := &models.Inquiry{Status: tr.from}
		err := TransitionInquiry(inq, tr.to, "", time.Now().UTC())
		require.NoError(t, err, "from %s to %s", tr.from, tr.to)
		assert.Equal(t, tr.to, inq.Status)
	}
}

func TestTransitionInquiry_StampsTimestamps(t *testing.T) {
	now := time.Now().UTC()
	inq := pendingInquiry()

	require.NoError(t, TransitionInquiry(inq, models.InquiryStatusReviewed, "looks good", now))
	require.NotNil(t, inq.ReviewedAt)
	assert.Equal(t, now, *inq.ReviewedAt)
	assert.Nil(t, inq.QuotedAt)
	assert.Equal(t, "looks good", inq.AdminNotes)

	later := now.Add(time.Hour)
	require.NoError(t, TransitionInquiry(inq, models.InquiryStatusQuoted, "", later))
	require.NotNil(t, inq.QuotedAt)
	assert.Equal(t, later, *inq.QuotedAt)
	// ReviewedAt stays from the earlier transition
	assert.Equal(t, now, *inq.ReviewedAt)
	// Notes were overwritten with the empty string
	assert.Equal(t, "", inq.AdminNotes)

	// Repeating the reviewed transition re-stamps it
	evenLater := later.Add(time.Hour)
	require.NoError(t, TransitionInquiry(inq, models.InquiryStatusReviewed, "", evenLater))
	assert.Equal(t, evenLater, *inq.ReviewedAt)
}

func TestTransitionInquiry_AdminNotesTooLong(t *testing.T) {
	inq := pendingInquiry()
	notes := strings.Repeat("x", MaxAdminNotesLen+1)
	err := TransitionInquiry(inq, models.InquiryStatusReviewed, notes, time.Now().UTC())
	require.Error(t, err)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestApplyQuote_ForcesQuotedStatus(t *testing.T) {
	now := time.Now().UTC()
	validUntil := now.Add(14 * 24 * time.Hour)

	// Quoting works from any prior status, not just reviewed.
	for _, from := range []models.InquiryStatus{
		models.InquiryStatusPending,
		models.InquiryStatusReviewed,
		models.InquiryStatusRejected,
		models.InquiryStatusCompleted,
	} {
		inq := &models.Inquiry{Status: from}
		err := ApplyQuote(inq, 1500, &validUntil, "50% deposit", now)
		require.NoError(t, err, "from %s", from)
		assert.Equal(t, models.InquiryStatusQuoted, inq.Status)
		require.NotNil(t, inq.Quote)
		assert.Equal(t, 1500.0, inq.Quote.FinalPrice)
		assert.Equal(t, "50% deposit", inq.Quote.Terms)
		require.NotNil(t, inq.QuotedAt)
		assert.Equal(t, now, *inq.QuotedAt)
	}
}

func TestApplyQuote_NegativePriceRejected(t *testing.T) {
	inq := pendingInquiry()
	err := ApplyQuote(inq, -100, nil, "", time.Now().UTC())
	require.Error(t, err)
	assert.Nil(t, inq.Quote)
	assert.Equal(t, models.InquiryStatusPending, inq.Status)
}

func TestApplyQuote_ZeroPriceAllowed(t *testing.T) {
	inq := pendingInquiry()
	err := ApplyQuote(inq, 0, nil, "comped trip", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0.0, inq.Quote.FinalPrice)
}

func TestApplyQuote_ReplacesExistingQuote(t *testing.T) {
	now := time.Now().UTC()
	inq := pendingInquiry()
	require.NoError(t, ApplyQuote(inq, 1000, nil, "v1", now))
	require.NoError(t, ApplyQuote(inq, 900, nil, "v2", now.Add(time.Hour)))
	assert.Equal(t, 900.0, inq.Quote.FinalPrice)
	assert.Equal(t, "v2", inq.Quote.Terms)
}
