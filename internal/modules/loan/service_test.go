package loan

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"smap/internal/domain"
	"smap/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Open(ctx context.Context, loan *domain.Loan, itemIDs []int64) error {
	args := m.Called(ctx, loan, itemIDs)
	if loan != nil && args.Error(0) == nil {
		loan.ID = 101 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockLoanRepository) Close(ctx context.Context, p repository.CloseLoanParams) (*domain.Loan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, page, size, sortBy, sortDir)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, r)
	return args.String(0), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateSummary(ctx context.Context) {
	m.Called(ctx)
}

func officerUser() *domain.User {
	return &domain.User{ID: 7, Name: "Warehouse Officer", Username: "officer", Role: domain.RoleOfficer}
}

func TestService_Open_Success(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockInval := new(MockInvalidator)

	mockUsers.On("GetByUsername", mock.Anything, "officer").Return(officerUser(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(7)).Return(officerUser(), nil)
	mockLoans.On("Open", mock.Anything, mock.Anything, []int64{1, 2}).Return(nil)
	mockInval.On("InvalidateSummary", mock.Anything).Return()

	service := NewService(mockLoans, mockUsers, nil, mockInval)

	v, err := service.Open(context.Background(), OpenLoanRequest{
		ItemIDs: []int64{1, 2},
		Purpose: "Site survey",
	}, "officer")

	assert.NoError(t, err)
	assert.Equal(t, int64(101), v.ID)
	assert.Equal(t, int64(7), v.BorrowerID)
	assert.Equal(t, "Warehouse Officer", v.BorrowerName)
	assert.Equal(t, domain.LoanOpen, v.Status)
	assert.True(t, strings.HasPrefix(v.RegisterNumber, "PMJ-"))
	mockInval.AssertCalled(t, "InvalidateSummary", mock.Anything)
}

func TestService_Open_ItemUnavailable(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockInval := new(MockInvalidator)

	mockUsers.On("GetByUsername", mock.Anything, "officer").Return(officerUser(), nil)
	mockLoans.On("Open", mock.Anything, mock.Anything, []int64{1}).
		Return(repository.ErrItemUnavailable)

	service := NewService(mockLoans, mockUsers, nil, mockInval)

	_, err := service.Open(context.Background(), OpenLoanRequest{
		ItemIDs: []int64{1},
		Purpose: "Site survey",
	}, "officer")

	assert.ErrorIs(t, err, ErrItemUnavailable)
	mockInval.AssertNotCalled(t, "InvalidateSummary", mock.Anything)
}

func TestService_Open_EmptyPurpose(t *testing.T) {
	service := NewService(new(MockLoanRepository), new(MockUserRepository), nil, nil)

	_, err := service.Open(context.Background(), OpenLoanRequest{
		ItemIDs: []int64{1},
		Purpose: "   ",
	}, "officer")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Open_UnknownBorrower(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)

	mockUsers.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockLoans, mockUsers, nil, nil)

	_, err := service.Open(context.Background(), OpenLoanRequest{
		ItemIDs: []int64{1},
		Purpose: "Site survey",
	}, "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
	mockLoans.AssertNotCalled(t, "Open", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Close_Success(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockInval := new(MockInvalidator)

	open := &domain.Loan{ID: 101, BorrowerID: 7, Status: domain.LoanOpen}
	now := time.Now()
	closed := &domain.Loan{
		ID:               101,
		BorrowerID:       7,
		Status:           domain.LoanClosed,
		ActualReturnDate: &now,
		Responsible:      &domain.ResponsibleParty{Kind: domain.ResponsibleRegistered, UserID: ptrInt64(7)},
	}

	mockLoans.On("GetByID", mock.Anything, int64(101)).Return(open, nil)
	mockUsers.On("GetByUsername", mock.Anything, "officer").Return(officerUser(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(7)).Return(officerUser(), nil)
	mockLoans.On("Close", mock.Anything, mock.MatchedBy(func(p repository.CloseLoanParams) bool {
		return p.LoanID == 101 && p.Responsible.Kind == domain.ResponsibleRegistered
	})).Return(closed, nil)
	mockInval.On("InvalidateSummary", mock.Anything).Return()

	service := NewService(mockLoans, mockUsers, nil, mockInval)

	v, err := service.Close(context.Background(), 101, CloseLoanRequest{
		Conditions: map[int64]domain.ItemCondition{1: domain.ConditionMinorDamage},
	}, nil, "officer")

	assert.NoError(t, err)
	assert.Equal(t, domain.LoanClosed, v.Status)
	assert.NotNil(t, v.ActualReturnDate)
	mockInval.AssertCalled(t, "InvalidateSummary", mock.Anything)
}

func TestService_Close_AlreadyClosed_NoMutation(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockFiles := new(MockFileStore)
	mockInval := new(MockInvalidator)

	closed := &domain.Loan{ID: 101, BorrowerID: 7, Status: domain.LoanClosed}
	mockLoans.On("GetByID", mock.Anything, int64(101)).Return(closed, nil)
	mockUsers.On("GetByID", mock.Anything, int64(7)).Return(officerUser(), nil)

	service := NewService(mockLoans, mockUsers, mockFiles, mockInval)

	evidence := &Evidence{Filename: "handover.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("x")}
	v, err := service.Close(context.Background(), 101, CloseLoanRequest{}, evidence, "officer")

	assert.NoError(t, err)
	assert.Equal(t, domain.LoanClosed, v.Status)
	mockLoans.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
	mockFiles.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockInval.AssertNotCalled(t, "InvalidateSummary", mock.Anything)
}

func TestService_Close_UnknownCondition(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockFiles := new(MockFileStore)
	mockInval := new(MockInvalidator)

	open := &domain.Loan{ID: 101, BorrowerID: 7, Status: domain.LoanOpen}
	mockLoans.On("GetByID", mock.Anything, int64(101)).Return(open, nil)

	service := NewService(mockLoans, mockUsers, mockFiles, mockInval)

	evidence := &Evidence{Filename: "handover.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("x")}
	_, err := service.Close(context.Background(), 101, CloseLoanRequest{
		Conditions: map[int64]domain.ItemCondition{1: "totally_bogus"},
	}, evidence, "officer")

	assert.ErrorIs(t, err, ErrValidation)
	mockLoans.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
	mockFiles.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockInval.AssertNotCalled(t, "InvalidateSummary", mock.Anything)
}

func TestService_Close_AdHocResponsible(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockInval := new(MockInvalidator)

	open := &domain.Loan{ID: 101, BorrowerID: 7, Status: domain.LoanOpen}
	closed := &domain.Loan{
		ID:         101,
		BorrowerID: 7,
		Status:     domain.LoanClosed,
		Responsible: &domain.ResponsibleParty{
			Kind: domain.ResponsibleAdHoc, Name: "Pak Budi", Title: "Vendor",
		},
	}

	mockLoans.On("GetByID", mock.Anything, int64(101)).Return(open, nil)
	mockUsers.On("GetByID", mock.Anything, int64(7)).Return(officerUser(), nil)
	mockLoans.On("Close", mock.Anything, mock.MatchedBy(func(p repository.CloseLoanParams) bool {
		return p.Responsible.Kind == domain.ResponsibleAdHoc && p.Responsible.Name == "Pak Budi"
	})).Return(closed, nil)
	mockInval.On("InvalidateSummary", mock.Anything).Return()

	service := NewService(mockLoans, mockUsers, nil, mockInval)

	v, err := service.Close(context.Background(), 101, CloseLoanRequest{
		Responsible: &AdHocResponsible{Name: "Pak Budi", Title: "Vendor"},
	}, nil, "officer")

	assert.NoError(t, err)
	assert.Equal(t, "Pak Budi (Vendor)", v.ResponsibleName)
	// Username never resolved when an ad-hoc party signs.
	mockUsers.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestService_Close_StorageFailure(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockUsers := new(MockUserRepository)
	mockFiles := new(MockFileStore)

	open := &domain.Loan{ID: 101, BorrowerID: 7, Status: domain.LoanOpen}
	mockLoans.On("GetByID", mock.Anything, int64(101)).Return(open, nil)
	mockUsers.On("GetByUsername", mock.Anything, "officer").Return(officerUser(), nil)
	mockFiles.On("Store", mock.Anything, "handover.jpg", "image/jpeg", mock.Anything).
		Return("", errors.New("bucket offline"))

	service := NewService(mockLoans, mockUsers, mockFiles, nil)

	evidence := &Evidence{Filename: "handover.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("x")}
	_, err := service.Close(context.Background(), 101, CloseLoanRequest{}, evidence, "officer")

	assert.ErrorIs(t, err, ErrStorage)
	mockLoans.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestService_Get_NotFound(t *testing.T) {
	mockLoans := new(MockLoanRepository)
	mockLoans.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockLoans, new(MockUserRepository), nil, nil)

	_, err := service.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func ptrInt64(v int64) *int64 { return &v }
