package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/SscSPs/finledger/internal/handlers"
	"github.com/SscSPs/finledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockTxnService *MockTransactionService
	mockIngest     *MockIngestService
	mockJournal    *MockJournalService
	mockAccount    *MockAccountService
	jwtSecret      string
	actorID        string
}

// generateTestToken creates a signed JWT for the given subject.
func (suite *HandlerTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finledger-test",
		Subject:   subject,
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

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.actorID = uuid.NewString()

	suite.mockTxnService = new(MockTransactionService)
	suite.mockIngest = new(MockIngestService)
	suite.mockJournal = new(MockJournalService)
	suite.mockAccount = new(MockAccountService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, BalanceTolerance: decimal.New(1, -2)}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Transaction: suite.mockTxnService,
		Ingest:      suite.mockIngest,
		Journal:     suite.mockJournal,
		Account:     suite.mockAccount,
	})
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.actorID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func salaryRecord() dto.RecordInput {
	return dto.RecordInput{
		AssetClass: domain.ClassSalary,
		Activity:   domain.ActivitySalary,
		AccountRef: "XX1234",
		Date:       "2024-04-30",
		Amount:     decimal.NewFromInt(150000),
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestRecord_NewlyRecorded() {
	result := &domain.TransactionResult{IdempotencyKey: "SALARY:abc", JournalID: uuid.NewString(), WasNewlyRecorded: true}
	suite.mockTxnService.On("Record", mock.Anything, suite.actorID,
		mock.MatchedBy(func(rec domain.NormalizedRecord) bool {
			return rec.AssetClass == domain.ClassSalary && rec.Date.Equal(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
		}), "PAYSLIP", "april.pdf").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/records", dto.RecordRequest{SourceType: "PAYSLIP", SourceFile: "april.pdf", Record: salaryRecord()})

	suite.Equal(http.StatusCreated, w.Code)
	var got domain.TransactionResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(*result, got)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRecord_DuplicateReturnsOK() {
	result := &domain.TransactionResult{IdempotencyKey: "SALARY:abc", JournalID: uuid.NewString(), WasNewlyRecorded: false}
	suite.mockTxnService.On("Record", mock.Anything, suite.actorID, mock.Anything, "PAYSLIP", "").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/records", dto.RecordRequest{SourceType: "PAYSLIP", Record: salaryRecord()})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestRecord_InvalidDate() {
	rec := salaryRecord()
	rec.Date = "30/04/2024"

	w := suite.do(http.MethodPost, "/api/v1/records", dto.RecordRequest{SourceType: "PAYSLIP", Record: rec})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "Record")
}

func (suite *HandlerTestSuite) TestRecord_UnbalancedMapsTo422() {
	unbalanced := &apperrors.UnbalancedJournalError{
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(90),
		Difference:  decimal.NewFromInt(10),
		Tolerance:   decimal.New(1, -2),
	}
	suite.mockTxnService.On("Record", mock.Anything, suite.actorID, mock.Anything, "PAYSLIP", "").Return(nil, unbalanced).Once()

	w := suite.do(http.MethodPost, "/api/v1/records", dto.RecordRequest{SourceType: "PAYSLIP", Record: salaryRecord()})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "difference")
}

func (suite *HandlerTestSuite) TestRecordBatch() {
	report := &domain.BatchReport{Total: 2, Recorded: 1, Duplicates: 1}
	suite.mockIngest.On("Ingest", mock.Anything, suite.actorID, "PAYSLIP", "fy24.csv",
		mock.MatchedBy(func(records []domain.NormalizedRecord) bool { return len(records) == 2 })).
		Return(report, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/records/batch", dto.BatchRecordRequest{
		SourceType: "PAYSLIP",
		SourceFile: "fy24.csv",
		Records:    []dto.RecordInput{salaryRecord(), salaryRecord()},
	})

	suite.Equal(http.StatusOK, w.Code)
	var got domain.BatchReport
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(*report, got)
}

func (suite *HandlerTestSuite) TestReverseJournal_Conflict() {
	journalID := uuid.NewString()
	suite.mockJournal.On("ReverseJournal", mock.Anything, suite.actorID, journalID).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/"+journalID+"/reverse", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetJournal_NotFound() {
	suite.mockJournal.On("GetJournal", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCreateJournal_RequiresTwoEntries() {
	w := suite.do(http.MethodPost, "/api/v1/journals", dto.CreateJournalRequest{
		Date:    "2024-04-01",
		Entries: []dto.EntryRequest{{AccountCode: "1101", Debit: decimal.NewFromInt(1)}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournal.AssertNotCalled(suite.T(), "CreateJournal")
}

func (suite *HandlerTestSuite) TestAccountBalance_AsOf() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.mockAccount.On("Lookup", mock.Anything, "1101").
		Return(&domain.Account{Code: "1101", CurrencyCode: "INR"}, nil).Once()
	suite.mockJournal.On("AccountBalance", mock.Anything, "1101",
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(asOf) })).
		Return(decimal.RequireFromString("1250.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1101/balance?asOf=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.AccountBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("INR", got.CurrencyCode)
	suite.Equal("2024-03-31", got.AsOf)
	suite.True(got.Balance.Equal(decimal.RequireFromString("1250.50")))
}

func (suite *HandlerTestSuite) TestAccountLookup_UnknownCode() {
	suite.mockAccount.On("Lookup", mock.Anything, "9999").Return(nil, apperrors.ErrAccountNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/9999", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestRejectsMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccount.AssertNotCalled(suite.T(), "ListAccounts")
}

func (suite *HandlerTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestSwaggerDocIsServed() {
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code)
	var doc struct {
		BasePath string         `json:"basePath"`
		Paths    map[string]any `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.Equal("/api/v1", doc.BasePath)
	suite.Contains(doc.Paths, "/records/batch")
	suite.Contains(doc.Paths, "/journals/{journalID}/reverse")
}

func (suite *HandlerTestSuite) TestSwaggerDisabledInProduction() {
	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}, &portssvc.ServiceContainer{})

	req, _ := http.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
