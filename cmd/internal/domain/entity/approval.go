package entity

// ApprovalStatus gates the visibility of member-submitted content
// (jobs, events and success stories) in public listings.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) IsPublic() bool {
	return s == StatusApproved
}
