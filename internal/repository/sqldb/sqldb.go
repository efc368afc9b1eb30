package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/repository/sqldb/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported dialects, as named in configuration.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DB wraps the connection pool and hands out the repositories built on it.
type DB struct {
	SqlDB   *sqlx.DB
	dialect string
}

// New opens a database for the given dialect. For SQLite the dsn is a file
// path; WAL mode, foreign keys and a busy timeout are enabled and the pool is
// limited to one connection so writers serialize. For Postgres the dsn is a
// pgx connection string.
func New(dialect, dsn string) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch dialect {
	case DialectSQLite:
		db, err = sqlx.Open("sqlite", dsn+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
		if err == nil {
			db.SetMaxOpenConns(1)
		}
	case DialectPostgres:
		db, err = sqlx.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db, dialect: dialect}, nil
}

// Dialect returns the dialect the database was opened with.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded migrations for this dialect.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB, db.dialect)
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() *UserRepository {
	return NewUserRepository(db)
}

func (db *DB) Doctors() *DoctorRepository {
	return &DoctorRepository{newTable[domain.Doctor](db.SqlDB, "doctors",
		"name", "email", "contact_number", "specialty", "bio_data")}
}

func (db *DB) Appointments() *AppointmentRepository {
	return &AppointmentRepository{newTable[domain.Appointment](db.SqlDB, "appointments",
		"patient_name", "doctor_name", "appointment_time", "status", "notes", "created_at")}
}

func (db *DB) MedicalRecords() *MedicalRecordRepository {
	return &MedicalRecordRepository{newTable[domain.MedicalRecord](db.SqlDB, "medical_records",
		"patient_id", "doctor_id", "diagnosis", "treatment", "notes", "recorded_at", "updated_at")}
}

func (db *DB) Phones() *PhoneRepository {
	return &PhoneRepository{newTable[domain.Phone](db.SqlDB, "phones",
		"user_id", "phone_number", "type", "is_primary", "created_at", "updated_at")}
}

func (db *DB) SMSLogs() *SMSLogRepository {
	return &SMSLogRepository{newTable[domain.SMSLog](db.SqlDB, "sms_logs",
		"phone_number", "message", "status", "sent_at")}
}

func (db *DB) USSDSessions() *USSDSessionRepository {
	return &USSDSessionRepository{newTable[domain.USSDSession](db.SqlDB, "ussd_sessions",
		"session_id", "phone_number", "session_data", "status", "service_code",
		"created_at", "updated_at", "terminated_at")}
}

func (db *DB) VoiceCalls() *VoiceCallRepository {
	return &VoiceCallRepository{newTable[domain.VoiceCall](db.SqlDB, "voice_calls",
		"call_id", "caller_number", "receiver_number", "call_status", "duration",
		"recording_url", "failure_reason", "initiated_at", "terminated_at")}
}

// withTx runs fn inside a transaction that is rolled back unless fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
