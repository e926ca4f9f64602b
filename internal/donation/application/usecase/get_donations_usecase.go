package usecase

import (
	"context"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

const defaultPageSize = 50

// GetDonationsService реализует GetDonationsUseCase
type GetDonationsService struct {
	donationRepo out.DonationRepository
	log          *logger.Logger
}

// NewGetDonationsService создает новый сервис списка донаций
func NewGetDonationsService(donationRepo out.DonationRepository, log *logger.Logger) *GetDonationsService {
	return &GetDonationsService{donationRepo: donationRepo, log: log}
}

// Execute возвращает доступные донации с фильтрами
func (s *GetDonationsService) Execute(ctx context.Context, input in.GetDonationsInput) (*in.GetDonationsOutput, error) {
	limit := input.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	donations, err := s.donationRepo.FindAvailable(ctx, out.DonationFilter{
		City:     input.City,
		District: input.District,
		FoodType: input.FoodType,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	return &in.GetDonationsOutput{Donations: donations}, nil
}

// GetDonationService реализует GetDonationUseCase
type GetDonationService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	log          *logger.Logger
}

// NewGetDonationService создает новый сервис просмотра донации
func NewGetDonationService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	log *logger.Logger,
) *GetDonationService {
	return &GetDonationService{donationRepo: donationRepo, requestRepo: requestRepo, log: log}
}

// Execute возвращает донацию; заявки по ней видит только донор-владелец
func (s *GetDonationService) Execute(ctx context.Context, input in.GetDonationInput) (*in.GetDonationOutput, error) {
	donation, err := s.donationRepo.FindByID(ctx, input.DonationID)
	if err != nil {
		return nil, err
	}

	requests := []*domain.FoodRequest{}
	if donation.DonorID == input.ViewerID {
		requests, err = s.requestRepo.FindByDonation(ctx, donation.ID)
		if err != nil {
			return nil, err
		}
	}

	return &in.GetDonationOutput{Donation: donation, Requests: requests}, nil
}

// GetMyDonationsService реализует GetMyDonationsUseCase
type GetMyDonationsService struct {
	donationRepo out.DonationRepository
	log          *logger.Logger
}

// NewGetMyDonationsService создает новый сервис донаций донора
func NewGetMyDonationsService(donationRepo out.DonationRepository, log *logger.Logger) *GetMyDonationsService {
	return &GetMyDonationsService{donationRepo: donationRepo, log: log}
}

// Execute возвращает донации текущего донора
func (s *GetMyDonationsService) Execute(ctx context.Context, input in.GetMyDonationsInput) (*in.GetMyDonationsOutput, error) {
	donations, err := s.donationRepo.FindByDonor(ctx, input.DonorID, input.ActiveOnly)
	if err != nil {
		return nil, err
	}
	return &in.GetMyDonationsOutput{Donations: donations}, nil
}

// GetMyRequestsService реализует GetMyRequestsUseCase
type GetMyRequestsService struct {
	requestRepo out.RequestRepository
	log         *logger.Logger
}

// NewGetMyRequestsService создает новый сервис заявок получателя
func NewGetMyRequestsService(requestRepo out.RequestRepository, log *logger.Logger) *GetMyRequestsService {
	return &GetMyRequestsService{requestRepo: requestRepo, log: log}
}

// Execute возвращает заявки текущего получателя
func (s *GetMyRequestsService) Execute(ctx context.Context, input in.GetMyRequestsInput) (*in.GetMyRequestsOutput, error) {
	requests, err := s.requestRepo.FindByRecipient(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}
	return &in.GetMyRequestsOutput{Requests: requests}, nil
}
