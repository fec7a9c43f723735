package domain

// InquiryStatus is the lifecycle state of a customer inquiry.
type InquiryStatus string

const (
	InquiryStatusOpen       InquiryStatus = "OPEN"
	InquiryStatusInProgress InquiryStatus = "IN_PROGRESS"
	InquiryStatusResolved   InquiryStatus = "RESOLVED"
	InquiryStatusClosed     InquiryStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusOpen, InquiryStatusInProgress, InquiryStatusResolved, InquiryStatusClosed:
		return true
	}
	return false
}

// InquiryCustomer is the customer summary embedded in an inquiry.
type InquiryCustomer struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	MSISDN   string `json:"msisdn"`
}

// Inquiry is a customer support request.
type Inquiry struct {
	ID               int64           `json:"id"`
	User             InquiryCustomer `json:"user"`
	Subject          string          `json:"subject"`
	Message          string          `json:"message"`
	Type             string          `json:"type"`
	Status           InquiryStatus   `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
	AdminResponse    string          `json:"adminResponse,omitempty"`
	AdminRespondedAt string          `json:"adminRespondedAt,omitempty"`
}
