package repository

import (
	"strings"
	"sync"
	"testing"

	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps the statements gorm builds in dry-run mode, with their
// arguments inlined the way the postgres dialector logs them
type sqlRecorder struct {
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) record(tx *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.statements, "no statement was built")
	return r.statements[len(r.statements)-1]
}

// newDryRunDB opens a postgres handle that builds SQL without connecting
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=clinic dbname=clinic sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	rec := &sqlRecorder{}
	callbacks := db.Callback()
	require.NoError(t, callbacks.Query().After("gorm:query").Register("test:record_query", rec.record))
	require.NoError(t, callbacks.Row().After("gorm:row").Register("test:record_row", rec.record))
	require.NoError(t, callbacks.Update().After("gorm:update").Register("test:record_update", rec.record))
	require.NoError(t, callbacks.Create().After("gorm:create").Register("test:record_create", rec.record))
	return db, rec
}

// splitWhere cuts an UPDATE into its SET and WHERE parts
func splitWhere(t *testing.T, statement string) (string, string) {
	t.Helper()
	set, where, found := strings.Cut(statement, " WHERE ")
	require.True(t, found, "no WHERE in %s", statement)
	return set, where
}

func TestPatientRepository_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewPatientRepository()
	id, doctorID := uuid.New(), uuid.New()

	_, err := repo.LockByID(db, id)
	require.NoError(t, err)
	locked := rec.last(t)
	assert.Contains(t, locked, `FROM "patients"`)
	assert.Contains(t, locked, "id = '"+id.String()+"'")
	assert.True(t, strings.HasSuffix(locked, "FOR UPDATE"), locked)

	_, err = repo.FindByIdentity(db, doctorID, "Consultation", "maria lopez")
	require.NoError(t, err)
	identity := rec.last(t)
	assert.Contains(t, identity, "doctor_id = '"+doctorID.String()+"' AND motive = 'Consultation' AND normalized_name = 'maria lopez'")
	assert.NotContains(t, identity, "FOR UPDATE")

	_, err = repo.UpdateStableCode(db, id, "A-C-001")
	require.NoError(t, err)
	set, where := splitWhere(t, rec.last(t))
	assert.Contains(t, set, `UPDATE "patients" SET`)
	assert.Contains(t, set, `"stable_code"='A-C-001'`)
	assert.Contains(t, where, "stable_code = ''", "a stored code is never overwritten")
}

func TestTicketRepository_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewTicketRepository()
	id, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindLatestPending(db, patientID)
	require.NoError(t, err)
	latest := rec.last(t)
	assert.Contains(t, latest, "status = 'pending'")
	assert.Contains(t, latest, "ORDER BY created_at DESC,number DESC")

	_, err = repo.UpdateStatus(db, id, entity.TicketStatusPending, entity.TicketStatusCompleted)
	require.NoError(t, err)
	set, where := splitWhere(t, rec.last(t))
	assert.Contains(t, set, `UPDATE "tickets" SET`)
	assert.Contains(t, set, `"status"='completed'`)
	assert.Contains(t, set, `"closed_at"=`)
	assert.Contains(t, where, "id = '"+id.String()+"'")
	assert.Contains(t, where, "status = 'pending'", "the update only applies while the ticket is still pending")

	_, err = repo.UpdateStatusByPatient(db, patientID, entity.TicketStatusPending, entity.TicketStatusReplaced)
	require.NoError(t, err)
	set, where = splitWhere(t, rec.last(t))
	assert.Contains(t, set, `"status"='replaced'`)
	assert.Contains(t, where, "patient_id = '"+patientID.String()+"'")
	assert.Contains(t, where, "status = 'pending'")

	// Scan needs a live connection, the statement is still built
	_, err = repo.ListPending(db, &doctorID)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)
	listing := rec.last(t)
	assert.Contains(t, listing, `FROM "tickets"`)
	assert.Contains(t, listing, "JOIN patients ON patients.id = tickets.patient_id")
	assert.Contains(t, listing, "JOIN staff ON staff.id = tickets.doctor_id")
	assert.Contains(t, listing, "tickets.status = 'pending'")
	assert.Contains(t, listing, "tickets.doctor_id = '"+doctorID.String()+"'")
	assert.Contains(t, listing, "ORDER BY staff.full_name ASC,tickets.created_at ASC,tickets.number ASC")

	_, err = repo.ListPending(db, nil)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)
	assert.NotContains(t, rec.last(t), "tickets.doctor_id =")

	_, err = repo.CountPendingByDoctor(db)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)
	counts := rec.last(t)
	assert.Contains(t, counts, `SELECT doctor_id, COUNT(*) AS waiting FROM "tickets"`)
	assert.Contains(t, counts, "status = 'pending'")
	assert.Regexp(t, `GROUP BY "?doctor_id"?`, counts)
}

func TestStaffRepository_UpdateStatusSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	id := uuid.New()

	_, err := NewStaffRepository().UpdateStatus(db, id, entity.DoctorStatusBusy)
	require.NoError(t, err)
	set, where := splitWhere(t, rec.last(t))
	assert.Contains(t, set, `UPDATE "staff" SET`)
	assert.Contains(t, set, `"status"='busy'`)
	assert.Contains(t, where, "id = '"+id.String()+"'")
}

func TestTicketCallRepository_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewTicketCallRepository()
	ticketID := uuid.New()

	require.NoError(t, repo.Create(db, &entity.TicketCall{TicketID: ticketID, Screen: 4}))
	insert := rec.last(t)
	assert.Contains(t, insert, `INSERT INTO "ticket_calls"`)
	assert.Contains(t, insert, "'"+ticketID.String()+"'")

	_, err := repo.ListRecentByScreen(db, 4, 10)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)
	board := rec.last(t)
	assert.Contains(t, board, "JOIN tickets ON tickets.id = ticket_calls.ticket_id")
	assert.Contains(t, board, "ticket_calls.screen = 4")
	assert.Contains(t, board, "ORDER BY ticket_calls.created_at DESC,ticket_calls.id DESC LIMIT 10")
}
