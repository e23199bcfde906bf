package db

import (
	"fmt"

	"github.com/medbook/medbook-server/models"
	"gorm.io/gorm"
)

// Migrate runs the schema migrations.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one booked appointment may exist per (doctor, date, slot).
	// The index makes the insert itself the arbiter, so two requests that
	// both pass the handler's existence check cannot both commit.
	err = gdb.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_booked_slot
		ON appointments (doctor_id, date, time_slot) WHERE status = 'booked'`).Error
	if err != nil {
		return fmt.Errorf("failed to create booked-slot index: %w", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
	return nil
}
