package domain

// ==== Donation Event Type ====
const (
	EventDonationCreated  = "DONATION_CREATED"
	EventFoodRequested    = "FOOD_REQUESTED"
	EventRequestAccepted  = "REQUEST_ACCEPTED"
	EventRequestRejected  = "REQUEST_REJECTED"
	EventRequestCompleted = "REQUEST_COMPLETED"
	EventRequestCancelled = "REQUEST_CANCELLED"
	EventDonationExpired  = "DONATION_EXPIRED"
)
