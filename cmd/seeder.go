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

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"message_reads", "messages", "contracts", "interviews", "candidates", "job_permissions", "subscriptions", "jobs", "users", "companies"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		companyID := ensureCompany(db, "Acme Recruiting")

		adminID := ensureUser(db, "admin@acme.test", "Ada Admin", "admin", companyID, string(hash))
		managerID := ensureUser(db, "manager@acme.test", "Morgan Manager", "member", companyID, string(hash))
		interviewerID := ensureUser(db, "interviewer@acme.test", "Iris Interviewer", "member", companyID, string(hash))

		jobID := ensureJob(db, managerID, "Senior Backend Engineer", "Build and run our hiring platform services.")

		ensureGrant(db, jobID, interviewerID, "interviewer", managerID)

		ensureCandidate(db, jobID, "Casey Candidate", "casey@example.com", "Five years of Go services experience, led two platform migrations.")

		fmt.Println("Seeded company:", companyID)
		fmt.Println("Seeded admin:", adminID, "(admin@acme.test / password)")
		fmt.Println("Seeded users: manager@acme.test, interviewer@acme.test (password: password)")
		fmt.Println("Seeded job:", jobID)
	},
}

func ensureCompany(db *gorm.DB, name string) string {
	var id string
	if err := db.Raw("SELECT id FROM companies WHERE name = ?", name).Row().Scan(&id); err == nil {
		return id
	}
	id = uuid.New().String()
	if err := db.Exec("INSERT INTO companies (id, name, created_at, updated_at) VALUES (?, ?, now(), now())", id, name).Error; err != nil {
		log.Fatalf("failed to insert company %s: %v", name, err)
	}
	return id
}

func ensureUser(db *gorm.DB, email, name, role, companyID, passwordHash string) string {
	var id string
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		return id
	}
	id = uuid.New().String()
	if err := db.Exec(
		"INSERT INTO users (id, email, name, role, company_id, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
		id, email, name, role, companyID, passwordHash,
	).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	return id
}

func ensureJob(db *gorm.DB, createdBy, title, description string) string {
	var id string
	if err := db.Raw("SELECT id FROM jobs WHERE title = ? AND created_by = ?", title, createdBy).Row().Scan(&id); err == nil {
		return id
	}
	id = uuid.New().String()
	if err := db.Exec(
		"INSERT INTO jobs (id, company_id, created_by, title, description, status, created_at, updated_at) SELECT ?, u.company_id, ?, ?, ?, 'open', now(), now() FROM users u WHERE u.id = ?",
		id, createdBy, title, description, createdBy,
	).Error; err != nil {
		log.Fatalf("failed to insert job %s: %v", title, err)
	}
	return id
}

func ensureGrant(db *gorm.DB, jobID, userID, tier, grantedBy string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM job_permissions WHERE job_id = ? AND user_id = ?", jobID, userID).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO job_permissions (id, job_id, user_id, tier, granted_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
		uuid.New().String(), jobID, userID, tier, grantedBy,
	).Error; err != nil {
		log.Fatalf("failed to insert grant for %s: %v", userID, err)
	}
}

func ensureCandidate(db *gorm.DB, jobID, name, email, summary string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM candidates WHERE job_id = ? AND email = ?", jobID, email).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO candidates (id, job_id, name, email, summary, stage, applied_at, updated_at) VALUES (?, ?, ?, ?, ?, 'applied', now(), now())",
		uuid.New().String(), jobID, name, email, summary,
	).Error; err != nil {
		log.Fatalf("failed to insert candidate %s: %v", email, err)
	}
}
