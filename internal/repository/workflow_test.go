package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"smap/internal/database"
	"smap/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

var seq int

func newItem(t *testing.T, items *ItemRepository, condition domain.ItemCondition) *domain.Item {
	t.Helper()
	seq++
	it := &domain.Item{
		Code:      fmt.Sprintf("ITM-%03d", seq),
		Name:      fmt.Sprintf("Test Item %d", seq),
		Condition: condition,
		Status:    domain.ItemAvailable,
	}
	require.NoError(t, items.Create(context.Background(), it))
	return it
}

func newLoan(borrowerID int64) *domain.Loan {
	seq++
	return &domain.Loan{
		RegisterNumber: fmt.Sprintf("PMJ-2026-%08d", seq),
		BorrowerID:     borrowerID,
		Purpose:        "Site survey",
		LoanDate:       time.Now(),
		Status:         domain.LoanOpen,
	}
}

func newTicket(requesterID int64) *domain.Ticket {
	seq++
	return &domain.Ticket{
		RegisterNumber: fmt.Sprintf("PRW-2026-%08d", seq),
		Subject:        "Periodic service",
		RequesterID:    requesterID,
		OpenedDate:     time.Now(),
		Status:         domain.TicketOpen,
	}
}

func registeredParty(userID int64) domain.ResponsibleParty {
	return domain.ResponsibleParty{Kind: domain.ResponsibleRegistered, UserID: &userID}
}

func TestLoanWorkflow_OpenCloseRoundTrip(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	a := newItem(t, items, domain.ConditionGood)
	b := newItem(t, items, domain.ConditionMinorDamage)

	l := newLoan(1)
	require.NoError(t, loans.Open(ctx, l, []int64{a.ID, b.ID}))
	require.Len(t, l.Lines, 2)

	// Both items flipped to on_loan, conditions snapshotted per line.
	gotA, err := items.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemOnLoan, gotA.Status)
	assert.Equal(t, domain.ConditionGood, l.Lines[0].ConditionOut)
	assert.Equal(t, domain.ConditionMinorDamage, l.Lines[1].ConditionOut)
	assert.Nil(t, l.Lines[0].ConditionIn)
	// The loan header note is not copied onto the lines.
	assert.Empty(t, l.Lines[0].Notes)

	// Close reporting damage on item a only; b falls back to its
	// loan-out condition.
	closed, err := loans.Close(ctx, CloseLoanParams{
		LoanID:       l.ID,
		Responsible:  registeredParty(1),
		ClosingNotes: "returned late",
		Conditions:   map[int64]domain.ItemCondition{a.ID: domain.ConditionMajorDamage},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanClosed, closed.Status)
	require.NotNil(t, closed.ActualReturnDate)
	assert.Contains(t, closed.Notes, "Pengembalian: returned late")

	require.NotNil(t, closed.Lines[0].ConditionIn)
	assert.Equal(t, domain.ConditionMajorDamage, *closed.Lines[0].ConditionIn)
	require.NotNil(t, closed.Lines[1].ConditionIn)
	assert.Equal(t, domain.ConditionMinorDamage, *closed.Lines[1].ConditionIn)

	gotA, err = items.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAvailable, gotA.Status)
	assert.Equal(t, domain.ConditionMajorDamage, gotA.Condition)

	gotB, err := items.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAvailable, gotB.Status)
	assert.Equal(t, domain.ConditionMinorDamage, gotB.Condition)
}

func TestLoanOpen_AtomicRollback(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	free := newItem(t, items, domain.ConditionGood)
	busy := newItem(t, items, domain.ConditionGood)

	first := newLoan(1)
	require.NoError(t, loans.Open(ctx, first, []int64{busy.ID}))

	// The batch includes one on-loan item, so nothing may change.
	second := newLoan(2)
	err := loans.Open(ctx, second, []int64{free.ID, busy.ID})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	gotFree, err := items.GetByID(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAvailable, gotFree.Status)

	var loanCount int64
	require.NoError(t, db.Model(&loanModel{}).Count(&loanCount).Error)
	assert.Equal(t, int64(1), loanCount)

	var lineCount int64
	require.NoError(t, db.Model(&loanLineModel{}).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)
}

func TestLoanOpen_DeletedItem(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionGood)
	require.NoError(t, items.SoftDelete(ctx, it.ID))

	err := loans.Open(ctx, newLoan(1), []int64{it.ID})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoanClose_Idempotent(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionGood)
	l := newLoan(1)
	require.NoError(t, loans.Open(ctx, l, []int64{it.ID}))

	closed, err := loans.Close(ctx, CloseLoanParams{
		LoanID:      l.ID,
		Responsible: registeredParty(1),
		Conditions:  map[int64]domain.ItemCondition{it.ID: domain.ConditionMinorDamage},
	})
	require.NoError(t, err)
	firstReturn := *closed.ActualReturnDate

	// Second close reports a different condition; it must not take.
	again, err := loans.Close(ctx, CloseLoanParams{
		LoanID:      l.ID,
		Responsible: registeredParty(2),
		Conditions:  map[int64]domain.ItemCondition{it.ID: domain.ConditionLost},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanClosed, again.Status)
	assert.True(t, firstReturn.Equal(*again.ActualReturnDate))
	assert.Equal(t, domain.ConditionMinorDamage, *again.Lines[0].ConditionIn)

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionMinorDamage, got.Condition)
}

func TestTicketWorkflow_PartialResolution(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	tickets := NewTicketRepository(db)
	ctx := context.Background()

	fixed := newItem(t, items, domain.ConditionMinorDamage)
	pending := newItem(t, items, domain.ConditionMajorDamage)

	tk := newTicket(1)
	require.NoError(t, tickets.Open(ctx, tk, []TicketOpenLine{
		{ItemID: fixed.ID, Symptom: "Rattling noise"},
		{ItemID: pending.ID, Symptom: "Cracked housing"},
	}))

	gotFixed, err := items.GetByID(ctx, fixed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemInMaintenance, gotFixed.Status)

	warranty := time.Now().AddDate(0, 6, 0)
	closed, err := tickets.Close(ctx, CloseTicketParams{
		TicketID:     tk.ID,
		Responsible:  registeredParty(1),
		ClosingNotes: "parts on order for the rest",
		Resolutions: map[int64]TicketResolution{
			fixed.ID: {
				RepairNotes:   "Tightened mounts",
				WarrantyUntil: &warranty,
				Condition:     domain.ConditionGood,
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketClosed, closed.Status)
	assert.Contains(t, closed.Notes, "Penyelesaian: parts on order for the rest")

	// Resolved line carries its outcome and the item returns to service.
	assert.True(t, closed.Lines[0].Resolved())
	assert.Equal(t, "Tightened mounts", closed.Lines[0].RepairNotes)
	require.NotNil(t, closed.Lines[0].WarrantyUntil)

	gotFixed, err = items.GetByID(ctx, fixed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemAvailable, gotFixed.Status)
	assert.Equal(t, domain.ConditionGood, gotFixed.Condition)

	// The unresolved line keeps no outcome and its item stays put even
	// though the ticket is closed.
	assert.False(t, closed.Lines[1].Resolved())
	gotPending, err := items.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemInMaintenance, gotPending.Status)
	assert.Equal(t, domain.ConditionMajorDamage, gotPending.Condition)
}

func TestTicketOpen_ItemOnLoan_Conflict(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	tickets := NewTicketRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionGood)
	require.NoError(t, loans.Open(ctx, newLoan(1), []int64{it.ID}))

	err := tickets.Open(ctx, newTicket(1), []TicketOpenLine{{ItemID: it.ID, Symptom: "Noise"}})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	var ticketCount int64
	require.NoError(t, db.Model(&ticketModel{}).Count(&ticketCount).Error)
	assert.Equal(t, int64(0), ticketCount)
}

func TestTicketClose_Idempotent(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	tickets := NewTicketRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionMinorDamage)
	tk := newTicket(1)
	require.NoError(t, tickets.Open(ctx, tk, []TicketOpenLine{{ItemID: it.ID, Symptom: "Noise"}}))

	_, err := tickets.Close(ctx, CloseTicketParams{
		TicketID:    tk.ID,
		Responsible: registeredParty(1),
	})
	require.NoError(t, err)

	// Item was never resolved; the late resolution must not take either.
	again, err := tickets.Close(ctx, CloseTicketParams{
		TicketID:    tk.ID,
		Responsible: registeredParty(2),
		Resolutions: map[int64]TicketResolution{
			it.ID: {Condition: domain.ConditionGood},
		},
	})
	require.NoError(t, err)
	assert.False(t, again.Lines[0].Resolved())

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemInMaintenance, got.Status)
}

func TestSummaryCounts(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	tickets := NewTicketRepository(db)
	ctx := context.Background()

	a := newItem(t, items, domain.ConditionGood)
	b := newItem(t, items, domain.ConditionGood)
	c := newItem(t, items, domain.ConditionGood)
	deleted := newItem(t, items, domain.ConditionGood)
	require.NoError(t, items.SoftDelete(ctx, deleted.ID))

	require.NoError(t, loans.Open(ctx, newLoan(1), []int64{a.ID}))
	require.NoError(t, tickets.Open(ctx, newTicket(1), []TicketOpenLine{{ItemID: b.ID, Symptom: "Noise"}}))
	_ = c

	total, err := items.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	available, err := items.CountByStatus(ctx, domain.ItemAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)

	onLoan, err := items.CountByStatus(ctx, domain.ItemOnLoan)
	require.NoError(t, err)
	assert.Equal(t, int64(1), onLoan)

	inMaintenance, err := items.CountByStatus(ctx, domain.ItemInMaintenance)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inMaintenance)

	openLoans, err := loans.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), openLoans)

	openTickets, err := tickets.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), openTickets)
}

// A busy item must be referenced by exactly one open transaction.
func TestBusyItem_SingleOpenReference(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionGood)

	l1 := newLoan(1)
	require.NoError(t, loans.Open(ctx, l1, []int64{it.ID}))
	assert.ErrorIs(t, loans.Open(ctx, newLoan(2), []int64{it.ID}), ErrItemUnavailable)

	var refs int64
	require.NoError(t, db.Table("loan_lines").
		Joins("JOIN loans ON loans.id = loan_lines.loan_id").
		Where("loan_lines.item_id = ? AND loans.status = ?", it.ID, string(domain.LoanOpen)).
		Count(&refs).Error)
	assert.Equal(t, int64(1), refs)

	// After close the item is free again and a new loan may reference it.
	_, err := loans.Close(ctx, CloseLoanParams{LoanID: l1.ID, Responsible: registeredParty(1)})
	require.NoError(t, err)
	require.NoError(t, loans.Open(ctx, newLoan(3), []int64{it.ID}))
}

// Two racing opens on the same sole available item resolve to exactly one
// winner. The pool is pinned to a single connection so both goroutines hit
// the same in-memory database and their transactions serialize.
func TestLoanOpen_ConcurrentSingleWinner(t *testing.T) {
	db := setupDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	it := newItem(t, items, domain.ConditionGood)
	contenders := []*domain.Loan{newLoan(1), newLoan(2)}

	errs := make(chan error, len(contenders))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, l := range contenders {
		wg.Add(1)
		go func(l *domain.Loan) {
			defer wg.Done()
			<-start
			errs <- loans.Open(ctx, l, []int64{it.ID})
		}(l)
	}
	close(start)
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrItemUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected open error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemOnLoan, got.Status)

	var loanCount int64
	require.NoError(t, db.Table("loans").Where("status = ?", string(domain.LoanOpen)).Count(&loanCount).Error)
	assert.Equal(t, int64(1), loanCount)
}

func TestLoanList_PaginationAndSort(t *testing.T) {
	db := setupDB(t)
	items := NewItemRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		it := newItem(t, items, domain.ConditionGood)
		require.NoError(t, loans.Open(ctx, newLoan(1), []int64{it.ID}))
	}

	page, total, err := loans.List(ctx, 0, 2, "id", "asc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Less(t, page[0].ID, page[1].ID)
	require.Len(t, page[0].Lines, 1)
	assert.NotEmpty(t, page[0].Lines[0].ItemCode)

	rest, _, err := loans.List(ctx, 1, 2, "id", "asc")
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
