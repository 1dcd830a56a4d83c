package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hris/dayflow-backend/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// These tests need a disposable database in TEST_DATABASE_URL and are
// skipped without one.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			fmt.Println("Failed to connect to test database:", err)
			os.Exit(1)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			fmt.Println("Failed to migrate test database:", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func setupTestData(t *testing.T) context.Context {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	_, err := testDB.Exec(ctx, "TRUNCATE TABLE leave_requests, attendance, payroll, employees, identities CASCADE")
	require.NoError(t, err)
	_, err = testDB.Exec(ctx, "UPDATE employee_code_counter SET last_value = 0")
	require.NoError(t, err)
	return ctx
}

func createTestEmployee(t *testing.T, ctx context.Context, email string, role employee.Role) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(testDB)
	seq, err := repo.NextCodeSequence(ctx)
	require.NoError(t, err)
	emp, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: employee.FormatEmployeeCode(2026, seq),
		IdentityUID:  "uid-" + email,
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
	})
	require.NoError(t, err)
	return emp
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestEmployeeRepository(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	alice := createTestEmployee(t, ctx, "alice@dayflow.com", employee.RoleEmployee)
	assert.Equal(t, "EMP-2026-0001", alice.EmployeeCode)

	t.Run("lookup by identity", func(t *testing.T) {
		found, err := repo.GetByIdentityUID(ctx, alice.IdentityUID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		_, err = repo.GetByIdentityUID(ctx, "nobody")
		assert.ErrorIs(t, err, employee.ErrEmployeeRecordNotFound)
	})

	t.Run("email uniqueness", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "ALICE@dayflow.com", "")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "alice@dayflow.com", alice.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.Create(ctx, employee.Employee{
			EmployeeCode: "EMP-2026-0099",
			IdentityUID:  "uid-other",
			Role:         employee.RoleEmployee,
			FirstName:    "Other",
			LastName:     "User",
			Email:        "alice@dayflow.com",
		})
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("partial update", func(t *testing.T) {
		phone := "+1-555-0100"
		updated, err := repo.Update(ctx, alice.ID, employee.Changes{Phone: &phone})
		require.NoError(t, err)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, phone, *updated.Phone)
		assert.Equal(t, alice.FirstName, updated.FirstName)

		_, err = repo.Update(ctx, uuid.NewString(), employee.Changes{Phone: &phone})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("code sequence advances", func(t *testing.T) {
		next, err := repo.NextCodeSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, next)
	})
}

func TestTransactionRollback(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewEmployeeRepository(testDB)
	tx := postgresql.NewTxManager(testDB)

	err := tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.NextCodeSequence(txCtx); err != nil {
			return err
		}
		return employee.ErrEmailExists
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	next, err := repo.NextCodeSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestAttendanceRepository(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewAttendanceRepository(testDB)
	alice := createTestEmployee(t, ctx, "alice@dayflow.com", employee.RoleEmployee)
	bob := createTestEmployee(t, ctx, "bob@dayflow.com", employee.RoleEmployee)

	_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: alice.ID, Date: day("2026-03-09"), Status: attendance.StatusPresent})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: alice.ID, Date: day("2026-03-09"), Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	leaves := postgresql.NewLeaveRequestRepository(testDB)
	lr, err := leaves.Create(ctx, leave.LeaveRequest{
		EmployeeID:   bob.ID,
		LeaveType:    leave.TypeSick,
		StartDate:    day("2026-03-09"),
		EndDate:      day("2026-03-09"),
		NumberOfDays: decimal.NewFromInt(1),
		Reason:       "Flu",
		Status:       leave.StatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, leaves.Decide(ctx, lr.ID, leave.Decision{Status: leave.StatusApproved, ApprovedByID: alice.ID, DecidedAt: day("2026-03-08")}))

	created, err := repo.CreateMissing(ctx, day("2026-03-09"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	bobDay, err := repo.GetByEmployeeAndDate(ctx, bob.ID, day("2026-03-09"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLeave, bobDay.Status)

	again, err := repo.CreateMissing(ctx, day("2026-03-09"))
	require.NoError(t, err)
	assert.Zero(t, again)

	from, to := day("2026-03-01"), day("2026-04-01")
	summary, err := repo.Summarize(ctx, attendance.Filter{EmployeeID: &alice.ID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, attendance.Summary{Present: 1, Total: 1}, summary)
}

func TestLeaveRequestDecideOnce(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewLeaveRequestRepository(testDB)
	admin := createTestEmployee(t, ctx, "admin@dayflow.com", employee.RoleAdmin)
	alice := createTestEmployee(t, ctx, "alice@dayflow.com", employee.RoleEmployee)

	lr, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID:   alice.ID,
		LeaveType:    leave.TypePaid,
		StartDate:    day("2026-03-16"),
		EndDate:      day("2026-03-17"),
		NumberOfDays: decimal.NewFromInt(2),
		Reason:       "Trip",
		Status:       leave.StatusPending,
	})
	require.NoError(t, err)

	decision := leave.Decision{Status: leave.StatusRejected, ApprovedByID: admin.ID, DecidedAt: day("2026-03-10")}
	require.NoError(t, repo.Decide(ctx, lr.ID, decision))
	assert.ErrorIs(t, repo.Decide(ctx, lr.ID, decision), leave.ErrLeaveRequestAlreadyProcessed)
	assert.ErrorIs(t, repo.Decide(ctx, uuid.NewString(), decision), leave.ErrLeaveRequestNotFound)

	stored, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, stored.Status)
	require.NotNil(t, stored.ApproverName)
	assert.Equal(t, "Test User", *stored.ApproverName)

	stats, err := repo.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.Total)
}

func TestPayrollRepository(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewPayrollRepository(testDB)
	alice := createTestEmployee(t, ctx, "alice@dayflow.com", employee.RoleEmployee)

	record := payroll.Payroll{
		EmployeeID:    alice.ID,
		Month:         3,
		Year:          2026,
		BaseSalary:    decimal.NewFromInt(5000),
		Allowances:    decimal.NewFromInt(500),
		Deductions:    decimal.RequireFromString("250.50"),
		GrossSalary:   decimal.NewFromInt(5500),
		NetSalary:     decimal.RequireFromString("5249.50"),
		PaymentStatus: payroll.PaymentStatusPending,
	}
	created, err := repo.Create(ctx, record)
	require.NoError(t, err)

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	orphan := record
	orphan.EmployeeID = uuid.NewString()
	_, err = repo.Create(ctx, orphan)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	got, err := repo.GetByPeriod(ctx, alice.ID, 3, 2026)
	require.NoError(t, err)
	assert.True(t, got.NetSalary.Equal(decimal.RequireFromString("5249.50")))

	withEmployee, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.EmployeeCode, withEmployee.EmployeeCode)

	pending, err := repo.CountByStatus(ctx, payroll.PaymentStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestIdentityRepository(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewIdentityRepository(testDB)

	identity := auth.LocalIdentity{UID: uuid.NewString(), Email: "alice@dayflow.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, identity))

	dup := identity
	dup.UID = uuid.NewString()
	dup.Email = "ALICE@dayflow.com"
	assert.ErrorIs(t, repo.Create(ctx, dup), auth.ErrEmailExists)

	require.NoError(t, repo.UpdatePassword(ctx, identity.UID, "new-hash", false))
	stored, err := repo.GetByEmail(ctx, "alice@dayflow.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", stored.PasswordHash)

	require.NoError(t, repo.Delete(ctx, identity.UID))
	_, err = repo.GetByUID(ctx, identity.UID)
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}
