package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if !cfg.Database.Configured() {
			log.Fatal("no database configured, nothing to seed")
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			// dependents first, same order the cascade delete uses
			for _, table := range []string{"swap_requests", "attendance", "schedules", "personnel", "password_reset_tokens", "sessions", "auth_users", "departments"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		departments := []string{"Operations", "Logistics", "Medical", "Communications"}
		for _, name := range departments {
			var exists int
			if err := db.Raw("SELECT 1 FROM departments WHERE name = ?", name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO departments (name, created_at) VALUES (?, now())", name).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", name, err)
			}
			fmt.Println("Seeded department:", name)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"admin@mail.com", "Ayu Admin", "admin"},
			{"staff@mail.com", "Sinta Staff", "staff"},
			{"relawan@mail.com", "Rudi Relawan", "volunteer"},
		}

		for _, u := range users {
			var userID string
			if err := db.Raw("SELECT id FROM auth_users WHERE email = ?", u.Email).Row().Scan(&userID); err != nil {
				userID = uuid.NewString()
				if err := db.Exec("INSERT INTO auth_users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
					userID, u.Email, u.Name, string(hash)).Error; err != nil {
					log.Fatalf("failed to insert auth user %s: %v", u.Email, err)
				}
				fmt.Println("Seeded auth user:", u.Email)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM personnel WHERE id = ?", userID).Row().Scan(&exists); err == nil {
				continue
			}
			var deptID int64
			if err := db.Raw("SELECT id FROM departments WHERE name = ?", "Operations").Row().Scan(&deptID); err != nil {
				log.Fatalf("failed to lookup department: %v", err)
			}
			if err := db.Exec("INSERT INTO personnel (id, name, email, role, department_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				userID, u.Name, u.Email, u.Role, deptID).Error; err != nil {
				log.Fatalf("failed to insert personnel %s: %v", u.Name, err)
			}
			fmt.Println("Seeded personnel:", u.Name)
		}

		var staffID string
		if err := db.Raw("SELECT id FROM auth_users WHERE email = ?", "staff@mail.com").Row().Scan(&staffID); err != nil {
			log.Fatalf("failed to lookup staff id: %v", err)
		}

		var scheduleCount int
		if err := db.Raw("SELECT COUNT(1) FROM schedules").Row().Scan(&scheduleCount); err == nil && scheduleCount == 0 {
			if err := db.Exec("INSERT INTO schedules (personnel_id, duty_date, start_time, end_time, title, notes, created_at, updated_at) VALUES (?, CURRENT_DATE, '08:00', '16:00', 'Day Watch', '', now(), now())",
				staffID).Error; err != nil {
				log.Fatalf("failed to insert sample schedule: %v", err)
			}
			fmt.Println("Seeded sample schedule for today")
		}

		fmt.Println("Seeding finished; all accounts use password:", password)
	},
}
