// Package storagetest holds a conformance suite every storage.Store backend
// must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

var seq atomic.Int64

// Suite exercises a storage.Store. Open is called before every test.
type Suite struct {
	suite.Suite
	Open  func() (storage.Store, error)
	store storage.Store
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	store, err := s.Open()
	s.Require().NoError(err, "failed to open store")
	s.store = store
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

// uniqueName keeps tests independent on backends that are not reset between runs.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

func (s *Suite) createUser(prefix string) models.User {
	name := uniqueName(prefix)
	user, err := s.store.CreateUser(s.ctx, models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
	})
	s.Require().NoError(err)
	return user
}

func (s *Suite) createExpense(owner models.User, description string, amount float64) models.Expense {
	e, err := s.store.CreateExpense(s.ctx, models.Expense{
		Description: description,
		Amount:      amount,
		Category:    "food",
		UserID:      owner.ID,
	})
	s.Require().NoError(err)
	return e
}

func (s *Suite) TestCreateAndFindUser() {
	created := s.createUser("alice")
	s.NotZero(created.ID)
	s.False(created.CreatedAt.IsZero())
	s.Nil(created.Salary)

	byName, err := s.store.FindByUsername(s.ctx, created.Username)
	s.Require().NoError(err)
	s.Equal(created.ID, byName.ID)
	s.Equal("hash", byName.PasswordHash)

	byID, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Email, byID.Email)

	byEmail, err := s.store.FindByEmail(s.ctx, created.Email)
	s.Require().NoError(err)
	s.Equal(created.ID, byEmail.ID)
}

func (s *Suite) TestFindMissingUser() {
	_, err := s.store.FindByUsername(s.ctx, uniqueName("ghost"))
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.store.FindByID(s.ctx, -1)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.store.FindByEmail(s.ctx, uniqueName("ghost")+"@example.com")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *Suite) TestDuplicateUsername() {
	user := s.createUser("dup")
	_, err := s.store.CreateUser(s.ctx, models.User{
		Username:     user.Username,
		Email:        uniqueName("other") + "@example.com",
		PasswordHash: "hash",
	})
	s.ErrorIs(err, storage.ErrAlreadyExists)
}

func (s *Suite) TestDuplicateEmail() {
	user := s.createUser("dupmail")
	_, err := s.store.CreateUser(s.ctx, models.User{
		Username:     uniqueName("other"),
		Email:        user.Email,
		PasswordHash: "hash",
	})
	s.ErrorIs(err, storage.ErrAlreadyExists)
}

func (s *Suite) TestUpdateSalary() {
	user := s.createUser("salary")

	salary := 4200.5
	s.Require().NoError(s.store.UpdateSalary(s.ctx, user.ID, &salary))
	got, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Salary)
	s.InDelta(4200.5, *got.Salary, 0.001)

	s.Require().NoError(s.store.UpdateSalary(s.ctx, user.ID, nil))
	got, err = s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Nil(got.Salary)

	s.ErrorIs(s.store.UpdateSalary(s.ctx, -1, &salary), storage.ErrNotFound)
}

func (s *Suite) TestCreateExpense() {
	user := s.createUser("spender")
	before := time.Now().Add(-time.Minute)

	e := s.createExpense(user, "coffee", 3.5)
	s.NotZero(e.ID)
	s.Equal("coffee", e.Description)
	s.InDelta(3.5, e.Amount, 0.001)
	s.Equal("food", e.Category)
	s.Equal(user.ID, e.UserID)
	s.True(e.Date.After(before), "date should be server-assigned now")
}

func (s *Suite) TestListExpensesInCreationOrder() {
	user := s.createUser("lister")
	first := s.createExpense(user, "bus", 2)
	second := s.createExpense(user, "lunch", 12)
	third := s.createExpense(user, "snack", 4)

	got, err := s.store.ListExpenses(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal([]int64{first.ID, second.ID, third.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func (s *Suite) TestListExpensesEmpty() {
	user := s.createUser("empty")
	got, err := s.store.ListExpenses(s.ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *Suite) TestExpenseOwnershipIsolation() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	e := s.createExpense(alice, "coffee", 3.5)

	list, err := s.store.ListExpenses(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Empty(list)

	_, err = s.store.GetExpense(s.ctx, bob.ID, e.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	s.ErrorIs(s.store.DeleteExpense(s.ctx, bob.ID, e.ID), storage.ErrNotFound)

	got, err := s.store.GetExpense(s.ctx, alice.ID, e.ID)
	s.Require().NoError(err)
	s.Equal(e.ID, got.ID)
}

func (s *Suite) TestDeleteExpense() {
	user := s.createUser("deleter")
	e := s.createExpense(user, "coffee", 3.5)

	s.Require().NoError(s.store.DeleteExpense(s.ctx, user.ID, e.ID))
	s.ErrorIs(s.store.DeleteExpense(s.ctx, user.ID, e.ID), storage.ErrNotFound)

	list, err := s.store.ListExpenses(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *Suite) TestDeleteUserRemovesExpenses() {
	user := s.createUser("leaver")
	other := s.createUser("stayer")
	s.createExpense(user, "coffee", 3.5)
	s.createExpense(user, "bus", 2)
	kept := s.createExpense(other, "rent", 900)

	s.Require().NoError(s.store.DeleteUser(s.ctx, user.ID))

	_, err := s.store.FindByID(s.ctx, user.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	list, err := s.store.ListExpenses(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Empty(list)

	_, err = s.store.GetExpense(s.ctx, other.ID, kept.ID)
	s.NoError(err, "other users' expenses must survive")

	s.ErrorIs(s.store.DeleteUser(s.ctx, user.ID), storage.ErrNotFound)
}

func (s *Suite) TestAmountsKeepFullPrecision() {
	user := s.createUser("precise")

	tiny := s.createExpense(user, "rounding", 0.004)
	huge := s.createExpense(user, "yacht", 1e13)

	got, err := s.store.GetExpense(s.ctx, user.ID, tiny.ID)
	s.Require().NoError(err)
	s.Equal(0.004, got.Amount, "small amounts must not round to zero")

	got, err = s.store.GetExpense(s.ctx, user.ID, huge.ID)
	s.Require().NoError(err)
	s.Equal(1e13, got.Amount)

	salary := 2.5e12
	s.Require().NoError(s.store.UpdateSalary(s.ctx, user.ID, &salary))
	u, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(u.Salary)
	s.Equal(2.5e12, *u.Salary)
}
