package out

import "context"

// DonationRef — срез донации, достаточный для проверки регистрации:
// кто донор и кто принятый получатель (если есть).
type DonationRef struct {
	ID                  string
	DonorID             string
	Status              string
	AcceptedRecipientID *string
}

// DonationLookup — порт чтения донаций из donation-сервиса (общая БД)
type DonationLookup interface {
	FindDonation(ctx context.Context, donationID string) (*DonationRef, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}
