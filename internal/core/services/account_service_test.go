package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade

	actor string
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewAccountService(s.mockAccountRepo)
	s.actor = "bursar"
}

func (s *AccountServiceTestSuite) TestCreateAccount_DerivesTypeAndClassification() {
	ctx := context.Background()

	s.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "4110" &&
			a.AccountType == domain.AccountTypeRevenue &&
			a.Classification == domain.RevenueClass &&
			a.IsActive
	})).Return(nil).Once()

	account, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code: "4110",
		Name: "Transport Fees",
	}, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.AccountTypeRevenue, account.AccountType)
	s.Equal(s.actor, account.CreatedBy)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_ContraAssetClassification() {
	ctx := context.Background()

	s.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountType == domain.AccountTypeAsset && a.Classification == domain.ContraAsset
	})).Return(nil).Once()

	_, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code: "1291",
		Name: "Accumulated Depreciation - Vehicles",
	}, s.actor)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownPrefixRejected() {
	ctx := context.Background()

	_, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code: "9100",
		Name: "Mystery",
	}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnclassifiableCodeRejected() {
	ctx := context.Background()

	// "13" is a valid asset prefix by leading digit but maps to no report
	// classification.
	_, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code: "1300",
		Name: "Prepayments",
	}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatchRejected() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1110",
		Name:        "Cash on Hand",
		AccountType: domain.AccountTypeAsset,
		IsActive:    true,
	}
	parentCode := parent.Code

	s.mockAccountRepo.On("FindAccountByCode", ctx, parent.Code).Return(&parent, nil).Once()

	_, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:       "4110",
		Name:       "Transport Fees",
		ParentCode: &parentCode,
	}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_MissingParentRejected() {
	ctx := context.Background()
	parentCode := "4100"

	s.mockAccountRepo.On("FindAccountByCode", ctx, parentCode).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:       "4110",
		Name:       "Transport Fees",
		ParentCode: &parentCode,
	}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestListAccountsByType_UnknownTypeRejected() {
	ctx := context.Background()

	_, err := s.service.ListAccountsByType(ctx, domain.AccountType("INCOME"))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "ListAccountsByType", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_MarksInactive() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4110",
		Name:        "Transport Fees",
		AccountType: domain.AccountTypeRevenue,
		IsActive:    true,
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	s.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountID == account.AccountID && !a.IsActive && a.LastUpdatedBy == s.actor
	})).Return(nil).Once()

	err := s.service.DeactivateAccount(ctx, account.AccountID, s.actor)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestInitializeDefaultChart_SkipsExistingCodes() {
	ctx := context.Background()
	existing := domain.Account{AccountID: uuid.NewString(), IsActive: true}

	s.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything).Return(&existing, nil)

	err := s.service.InitializeDefaultChart(ctx, s.actor)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestInitializeDefaultChart_SeedsMissingCodes() {
	ctx := context.Background()

	s.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.IsActive && a.AccountType != "" && a.Classification != ""
	})).Return(nil)

	err := s.service.InitializeDefaultChart(ctx, s.actor)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertCalled(s.T(), "SaveAccount", ctx, mock.Anything)
}

func (s *AccountServiceTestSuite) TestInitializeDefaultChart_ToleratesSeedRaces() {
	ctx := context.Background()

	s.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	// A concurrent seeder wins every insert race.
	s.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate)

	err := s.service.InitializeDefaultChart(ctx, s.actor)

	s.Require().NoError(err)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
