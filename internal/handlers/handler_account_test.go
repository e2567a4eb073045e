package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/handlers"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, workplaceID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, workplaceID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, workplaceID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, workplaceID, accountID, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ImportAccounts(ctx context.Context, workplaceID string, reqs []dto.CreateAccountRequest, actorID string) (*dto.ImportAccountsResult, error) {
	args := m.Called(ctx, workplaceID, reqs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportAccountsResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a signed JWT whose subject is the actor.
func (suite *AccountHandlerTestSuite) generateTestToken(actorID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   actorID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.SetupValidator()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)

	wp := suite.router.Group("/api/v1/workplaces/:workplace_id")
	handlers.RegisterAccountRoutes(wp, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleAccount() *domain.Account {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:      "acc-1",
		WorkplaceID:    "wp-1",
		Code:           "1000",
		Name:           "Cash",
		Classification: domain.Asset,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields("user-1", now),
	}
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: domain.Asset}
	suite.mockAccountService.On("CreateAccount", mock.Anything, "wp-1", req, "user-1").Return(sampleAccount(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/accounts", `{"code":"1000","name":"Cash","classification":"ASSET"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("acc-1", resp.AccountID)
	suite.Equal(domain.Asset, resp.Classification)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_UnknownClassification() {
	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/accounts", `{"code":"1000","name":"Cash","classification":"BOGUS"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "classification")
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Classification: domain.Asset}
	dupErr := apperrors.Conflict(apperrors.CodeDuplicateAccountCode, "1000", "account code 1000 already exists in the workplace")
	suite.mockAccountService.On("CreateAccount", mock.Anything, "wp-1", req, "user-1").Return(nil, dupErr).Once()

	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/accounts", `{"code":"1000","name":"Cash","classification":"ASSET"}`)

	suite.Equal(http.StatusConflict, w.Code)
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("DUPLICATE_ACCOUNT_CODE", body.Code)
	suite.Equal("1000", body.EntityID)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	notFound := apperrors.NotFound(apperrors.CodeAccountNotFound, "missing", "account missing not found")
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "wp-1", "missing").Return(nil, notFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts/missing", "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), `"code":"ACCOUNT_NOT_FOUND"`)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_PassesPagination() {
	token := "MTAwMA=="
	params := dto.ListAccountsParams{Limit: 2, NextToken: &token}
	suite.mockAccountService.On("ListAccounts", mock.Anything, "wp-1", params).
		Return(&dto.ListAccountsResponse{Accounts: []dto.AccountResponse{dto.ToAccountResponse(sampleAccount())}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts?limit=2&nextToken=MTAwMA==", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 1)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts?limit=100000", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_ClassificationLocked() {
	cls := domain.Liability
	req := dto.UpdateAccountRequest{Classification: &cls}
	locked := apperrors.Invariant(apperrors.CodeClassificationLocked, "acc-1", "account acc-1 has postings")
	suite.mockAccountService.On("UpdateAccount", mock.Anything, "wp-1", "acc-1", req, "user-1").Return(nil, locked).Once()

	w := suite.do(http.MethodPatch, "/api/v1/workplaces/wp-1/accounts/acc-1", `{"classification":"LIABILITY"}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), `"code":"CLASSIFICATION_LOCKED"`)
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount() {
	acc := sampleAccount()
	acc.IsActive = false
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "wp-1", "acc-1", "user-1").Return(acc, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/accounts/acc-1/deactivate", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"isActive":false`)
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workplaces/wp-1/accounts/acc-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
