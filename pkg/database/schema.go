package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the cabinet store
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	tables := []string{
		createUsersTable,
		createPatientsTable,
		createAppointmentsTable,
		createNotesTable,
		createInventoryItemsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createUsersIndexes,
		createPatientsIndexes,
		createAppointmentsIndexes,
		createNotesIndexes,
		createInventoryItemsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// SQL DDL statements for table creation
const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'doctor', 'assistant')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (tenant_id, email)
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			parent_name VARCHAR(255) NOT NULL DEFAULT '',
			parent_phone VARCHAR(50) NOT NULL DEFAULT '',
			condition VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			patient_id UUID NOT NULL,
			patient_name VARCHAR(255) NOT NULL,
			doctor_id UUID NOT NULL,
			doctor_name VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 30,
			status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'confirmed', 'canceled', 'done')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`

	createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id UUID PRIMARY KEY,
			patient_id UUID NOT NULL,
			appointment_id UUID,
			doctor_id UUID NOT NULL,
			doctor_name VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			is_voice_memo BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`

	createInventoryItemsTable = `
		CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0,
			min_quantity INTEGER NOT NULL DEFAULT 0,
			unit VARCHAR(50) NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createUsersIndexes = `
		CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`

	createPatientsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_patients_tenant ON patients(tenant_id);
		CREATE INDEX IF NOT EXISTS idx_patients_full_name ON patients(full_name);`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_tenant_date ON appointments(tenant_id, date);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor ON appointments(doctor_id);`

	createNotesIndexes = `
		CREATE INDEX IF NOT EXISTS idx_notes_patient ON notes(patient_id);
		CREATE INDEX IF NOT EXISTS idx_notes_appointment ON notes(appointment_id);`

	createInventoryItemsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_inventory_tenant ON inventory_items(tenant_id);`
)
