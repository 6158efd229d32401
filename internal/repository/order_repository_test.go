package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendago/backend/internal/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func sampleOrder() *domain.Order {
	now := time.Now()
	productID := int64(7)
	return &domain.Order{
		UserID:        42,
		OrderNumber:   "12345678901",
		Total:         decimal.NewFromInt(20),
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: domain.PaymentStatusPaid,
		Items: []domain.OrderItem{
			{ProductID: &productID, Name: "Widget", Quantity: 2, Price: decimal.NewFromInt(10)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateOrderCommitsHeaderAndItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectCommit()

	err := repo.CreateOrder(context.Background(), order, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(10), order.ID)
	assert.Equal(t, int64(100), order.Items[0].ID)
	assert.Equal(t, int64(10), order.Items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_order_number_key"})
	mock.ExpectRollback()

	err := repo.CreateOrder(context.Background(), sampleOrder(), nil)
	assert.ErrorIs(t, err, domain.ErrOrderNumberTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnError(errors.New("column mismatch"))
	mock.ExpectRollback()

	err := repo.CreateOrder(context.Background(), sampleOrder(), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrOrderNumberTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderMergesAddressSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, address, city, postal_code, country FROM data_users WHERE user_id = $1 FOR UPDATE")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "city", "postal_code", "country"}).
			AddRow(int64(5), "Calle vieja", "Madrid", "28001", "ES"))
	// Supplied address overrides, empty fields keep the stored value.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE data_users SET")).
		WithArgs(int64(5),
			sql.NullString{String: "Calle nueva", Valid: true},
			sql.NullString{String: "Madrid", Valid: true},
			sql.NullString{String: "28001", Valid: true},
			sql.NullString{String: "ES", Valid: true},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateOrder(context.Background(), order, &domain.AddressPatch{Address: "Calle nueva"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderInsertsSnapshotWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM data_users WHERE user_id = $1 FOR UPDATE")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO data_users")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateOrder(context.Background(), order, &domain.AddressPatch{Address: "Calle 1", City: "Madrid"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderNumberExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("12345678901").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.OrderNumberExists(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUserScopesOwnership(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(10), int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForUser(context.Background(), 42, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	status := domain.OrderStatusShipped
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), 999, domain.OrderStatusPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
