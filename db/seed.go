package db

import (
	"fmt"
	"log"

	"github.com/medbook/medbook-server/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedDoctors = []models.Doctor{
	{
		Name:            "Dr. Rajesh Kumar",
		Specialization:  "Cardiology",
		Email:           "rajesh.kumar@hospital.com",
		Phone:           "+91 98765 43210",
		Qualification:   "MBBS, MD, DM (Cardiology)",
		Experience:      15,
		ConsultationFee: 1200,
		Bio:             "Specialized in cardiovascular diseases with over 15 years of experience.",
		IsActive:        true,
	},
	{
		Name:            "Dr. Priya Sharma",
		Specialization:  "Pediatrics",
		Email:           "priya.sharma@hospital.com",
		Phone:           "+91 98765 43211",
		Qualification:   "MBBS, MD (Pediatrics)",
		Experience:      12,
		ConsultationFee: 1000,
		Bio:             "Dedicated pediatrician providing comprehensive care for children.",
		AvailableDays:   models.StringList{"Monday", "Tuesday", "Thursday", "Friday"},
		WorkStart:       "08:00",
		WorkEnd:         "16:00",
		IsActive:        true,
	},
	{
		Name:            "Dr. Anjali Verma",
		Specialization:  "Dermatology",
		Email:           "anjali.verma@hospital.com",
		Phone:           "+91 98765 43212",
		Qualification:   "MBBS, MD (Dermatology)",
		Experience:      10,
		ConsultationFee: 800,
		Bio:             "Expert in skin conditions and cosmetic dermatology.",
		AvailableDays:   models.StringList{"Monday", "Wednesday", "Thursday", "Friday"},
		WorkStart:       "10:00",
		WorkEnd:         "18:00",
		IsActive:        true,
	},
	{
		Name:            "Dr. Arjun Patel",
		Specialization:  "Orthopedics",
		Email:           "arjun.patel@hospital.com",
		Phone:           "+91 98765 43213",
		Qualification:   "MBBS, MS (Orthopedics)",
		Experience:      18,
		ConsultationFee: 1500,
		Bio:             "Specialized in sports medicine and joint replacement surgery.",
		AvailableDays:   models.StringList{"Tuesday", "Wednesday", "Thursday", "Friday"},
		IsActive:        true,
	},
	{
		Name:            "Dr. Sneha Reddy",
		Specialization:  "General Practice",
		Email:           "sneha.reddy@hospital.com",
		Phone:           "+91 98765 43214",
		Qualification:   "MBBS",
		Experience:      8,
		ConsultationFee: 500,
		Bio:             "Primary care physician providing comprehensive healthcare services.",
		WorkStart:       "08:00",
		WorkEnd:         "18:00",
		IsActive:        true,
	},
	{
		Name:            "Dr. Vikram Singh",
		Specialization:  "Neurology",
		Email:           "vikram.singh@hospital.com",
		Phone:           "+91 98765 43215",
		Qualification:   "MBBS, MD, DM (Neurology)",
		Experience:      20,
		ConsultationFee: 1800,
		Bio:             "Expert in neurological disorders and brain health.",
		AvailableDays:   models.StringList{"Monday", "Tuesday", "Wednesday", "Friday"},
		IsActive:        true,
	},
}

// Seed loads the sample doctors plus an admin and a test patient. Existing
// rows are left alone, so it is safe to run more than once.
func Seed(gdb *gorm.DB) error {
	for _, doctor := range seedDoctors {
		var existing models.Doctor
		if gdb.Where("email = ?", doctor.Email).First(&existing).RowsAffected > 0 {
			continue
		}
		if err := gdb.Create(&doctor).Error; err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", doctor.Email, err)
		}
	}

	users := []struct {
		user     models.User
		password string
	}{
		{
			user: models.User{
				Name:  "Admin User",
				Email: "admin@medbook.com",
				Role:  models.RoleAdmin,
				Phone: "+1 (555) 000-0000",
			},
			password: "admin123",
		},
		{
			user: models.User{
				Name:    "John Doe",
				Email:   "patient@example.com",
				Role:    models.RolePatient,
				Phone:   "+1 (555) 111-2222",
				Address: "123 Main St, New York, NY 10001",
			},
			password: "patient123",
		},
	}

	for _, entry := range users {
		var existing models.User
		if gdb.Where("email = ?", entry.user.Email).First(&existing).RowsAffected > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		entry.user.PasswordHash = string(hash)
		if err := gdb.Create(&entry.user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", entry.user.Email, err)
		}
		log.Printf("Created %s user (%s / %s)", entry.user.Role, entry.user.Email, entry.password)
	}

	fmt.Println("🎉 Database seeded successfully!")
	return nil
}
