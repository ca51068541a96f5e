package domain

import "time"

// AidRequestStatus represents the lifecycle state of an aid request.
type AidRequestStatus string

const (
	AidRequestPending    AidRequestStatus = "Pending"
	AidRequestProcessing AidRequestStatus = "Processing"
	AidRequestApproved   AidRequestStatus = "Approved"
	AidRequestRejected   AidRequestStatus = "Rejected"
)

var aidRequestTransitions = map[AidRequestStatus][]AidRequestStatus{
	AidRequestPending:    {AidRequestProcessing, AidRequestApproved, AidRequestRejected},
	AidRequestProcessing: {AidRequestApproved, AidRequestRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AidRequestStatus) CanTransitionTo(next AidRequestStatus) bool {
	for _, allowed := range aidRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AidPriority string

const (
	PriorityHigh   AidPriority = "High"
	PriorityMedium AidPriority = "Medium"
	PriorityLow    AidPriority = "Low"
)

// AidRequest is a request for assistance filed on behalf of a beneficiary.
type AidRequest struct {
	ID              string           `json:"id"`
	Reference       string           `json:"reference"`
	TenantID        string           `json:"tenant_id"`
	BeneficiaryID   string           `json:"beneficiary_id"`
	RequestedBy     string           `json:"requested_by"`
	RequestType     string           `json:"request_type"`
	Amount          float64          `json:"request_amount"`
	Description     string           `json:"description"`
	Priority        AidPriority      `json:"priority"`
	Status          AidRequestStatus `json:"request_status"`
	ApprovedBy      string           `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time       `json:"approval_date,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Approve records an approval decision by actorID.
func (r *AidRequest) Approve(actorID string, now time.Time) error {
	if !r.Status.CanTransitionTo(AidRequestApproved) {
		return ErrInvalidTransition
	}
	r.Status = AidRequestApproved
	r.ApprovedBy = actorID
	r.ApprovalDate = &now
	r.UpdatedAt = now
	return nil
}

// Reject records a rejection with its reason.
func (r *AidRequest) Reject(actorID, reason string, now time.Time) error {
	if !r.Status.CanTransitionTo(AidRequestRejected) {
		return ErrInvalidTransition
	}
	r.Status = AidRequestRejected
	r.ApprovedBy = actorID
	r.RejectionReason = reason
	r.UpdatedAt = now
	return nil
}
