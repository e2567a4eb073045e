package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, workplaceID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, workplaceID string, limit int, afterCode *string) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID, limit, afterCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindRetainedEarningsAccount(ctx context.Context, workplaceID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountHasPostings(ctx context.Context, workplaceID, accountID string) (bool, error) {
	args := m.Called(ctx, workplaceID, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAccountRepository
	service     portssvc.AccountSvcFacade
	workplaceID string
	now         time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.workplaceID = uuid.NewString()
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithAccountClock(func() time.Time { return suite.now }))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Cash",
		Classification: domain.Asset,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(suite.workplaceID, created.WorkplaceID)
	suite.Equal("1000", created.Code)
	suite.Equal(domain.Asset, created.Classification)
	suite.True(created.IsActive)
	suite.Equal(actorID, created.CreatedBy)
	suite.Equal(suite.now, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: domain.Asset}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, "actor")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, apperrors.CodeDuplicateAccountCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "4000", Name: "Sales", Classification: domain.Revenue}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, "actor")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SecondRetainedEarningsRejected() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: "re-1", Code: "3100", Classification: domain.Equity, IsRetainedEarnings: true}
	req := dto.CreateAccountRequest{Code: "3200", Name: "Other RE", Classification: domain.Equity, IsRetainedEarnings: true}

	suite.mockRepo.On("FindRetainedEarningsAccount", ctx, suite.workplaceID).Return(existing, nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, "actor")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.CodeDuplicateRetainedEarnings)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetainedEarningsMustBeEquity() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: domain.Asset, IsRetainedEarnings: true}

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, "actor")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, suite.workplaceID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.workplaceID, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(err, apperrors.CodeAccountNotFound)
	le, ok := apperrors.AsLedgerError(err)
	suite.Require().True(ok)
	suite.Equal(accountID, le.EntityID)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_RepoError() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, suite.workplaceID, accountID).Return(nil, assert.AnError).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.workplaceID, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ClassificationLockedOncePosted() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", WorkplaceID: suite.workplaceID, Code: "5000", Classification: domain.Expense, IsActive: true}
	newClass := domain.Asset

	suite.mockRepo.On("FindAccountByID", ctx, suite.workplaceID, "acc-1").Return(account, nil).Once()
	suite.mockRepo.On("AccountHasPostings", ctx, suite.workplaceID, "acc-1").Return(true, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.workplaceID, "acc-1", dto.UpdateAccountRequest{Classification: &newClass}, "actor")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.ErrorIs(err, apperrors.CodeClassificationLocked)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameWithoutPostingsCheck() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", WorkplaceID: suite.workplaceID, Code: "5000", Name: "Rent", Classification: domain.Expense, IsActive: true}
	name := "Office rent"

	suite.mockRepo.On("FindAccountByID", ctx, suite.workplaceID, "acc-1").Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == name && a.Code == "5000" && a.LastUpdatedBy == "editor"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.workplaceID, "acc-1", dto.UpdateAccountRequest{Name: &name}, "editor")

	suite.Require().NoError(err)
	suite.Equal(name, updated.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "AccountHasPostings", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", WorkplaceID: suite.workplaceID, Code: "1000", Classification: domain.Asset, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, suite.workplaceID, "acc-1").Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool { return !a.IsActive })).Return(nil).Once()

	deactivated, err := suite.service.DeactivateAccount(ctx, suite.workplaceID, "acc-1", "actor")

	suite.Require().NoError(err)
	suite.False(deactivated.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_Pagination() {
	ctx := context.Background()
	page := []domain.Account{
		{AccountID: "a", Code: "1000", Classification: domain.Asset},
		{AccountID: "b", Code: "2000", Classification: domain.Liability},
		{AccountID: "c", Code: "3000", Classification: domain.Equity},
	}

	suite.mockRepo.On("ListAccounts", ctx, suite.workplaceID, 3, (*string)(nil)).Return(page, nil).Once()

	resp, err := suite.service.ListAccounts(ctx, suite.workplaceID, dto.ListAccountsParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Len(resp.Accounts, 2)
	suite.Require().NotNil(resp.NextToken)

	after := "2000"
	suite.mockRepo.On("ListAccounts", ctx, suite.workplaceID, 3, &after).Return(page[2:], nil).Once()

	resp, err = suite.service.ListAccounts(ctx, suite.workplaceID, dto.ListAccountsParams{Limit: 2, NextToken: resp.NextToken})

	suite.Require().NoError(err)
	suite.Len(resp.Accounts, 1)
	suite.Nil(resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestImportAccounts_SkipsExistingCodes() {
	ctx := context.Background()
	reqs := []dto.CreateAccountRequest{
		{Code: "1000", Name: "Cash", Classification: domain.Asset},
		{Code: "4000", Name: "Sales", Classification: domain.Revenue},
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1000").Return(&domain.Account{Code: "1000"}, nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, suite.workplaceID, "4000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool { return a.Code == "4000" })).Return(nil).Once()

	result, err := suite.service.ImportAccounts(ctx, suite.workplaceID, reqs, "actor")

	suite.Require().NoError(err)
	suite.Equal([]string{"1000"}, result.Skipped)
	suite.Require().Len(result.Created, 1)
	suite.Equal("4000", result.Created[0].Code)
	suite.mockRepo.AssertExpectations(suite.T())
}
