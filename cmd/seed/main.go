package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"

	"transitdocs/internal/config"
	"transitdocs/internal/database"
	"transitdocs/internal/database/migration"
	"transitdocs/internal/model"
	"transitdocs/internal/repository"
	"transitdocs/internal/repository/postgres"
	"transitdocs/internal/storage"
)

// Seeds the demo accounts and a few documents so a fresh install has
// something to click through. Safe to run repeatedly.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	profiles := postgres.NewProfilePostgres(db)
	docs := postgres.NewDocumentPostgres(db)
	assignments := postgres.NewAssignmentPostgres(db)

	password := os.Getenv("SEED_DEMO_PASSWORD")
	if password == "" {
		password = "demo1234"
	}

	admin, err := ensureUser(ctx, profiles, "admin@demo.com", "Demo Admin", model.RoleAdmin, "operations", password)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	employee, err := ensureUser(ctx, profiles, "employee@demo.com", "Demo Employee", model.RoleEmployee, "maintenance", password)
	if err != nil {
		log.Fatalf("failed to seed employee: %v", err)
	}

	seeded, err := seedDocuments(ctx, docs, assignments, objStore, admin, employee)
	if err != nil {
		log.Fatalf("failed to seed documents: %v", err)
	}

	fmt.Printf("seed complete: admin=%s employee=%s documents=%d\n", admin.Email, employee.Email, seeded)
}

// ensureUser creates the account unless one already exists for the email.
func ensureUser(ctx context.Context, profiles repository.ProfileRepository, email, name string, role model.Role, department, password string) (*model.Profile, error) {
	existing, err := profiles.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return profiles.Create(ctx, &model.Profile{
		UserID:       uuid.New().String(),
		FullName:     name,
		Email:        email,
		Role:         role,
		Department:   department,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
}

type demoDoc struct {
	title    string
	category string
	desc     string
	priority model.Priority
	status   model.Status
	assign   bool
}

// seedDocuments inserts the demo set once; any existing document means a
// previous run already did it.
func seedDocuments(
	ctx context.Context,
	docs repository.DocumentRepository,
	assignments repository.AssignmentRepository,
	objStore storage.Storage,
	admin, employee *model.Profile,
) (int, error) {
	page, err := docs.List(ctx, repository.DocumentFilter{Page: repository.PageQuery{Limit: 1}})
	if err != nil {
		return 0, err
	}
	if page.Total > 0 {
		return 0, nil
	}

	demo := []demoDoc{
		{
			title:    "Depot Safety Procedures",
			category: "safety",
			desc:     "Mandatory reading for all depot staff.",
			priority: model.PriorityHigh,
			status:   model.StatusApproved,
			assign:   true,
		},
		{
			title:    "Rolling Stock Maintenance Schedule",
			category: "maintenance",
			desc:     "Quarterly maintenance windows for the fleet.",
			priority: model.PriorityMedium,
			status:   model.StatusApproved,
			assign:   true,
		},
		{
			title:    "Updated Timetable Proposal",
			category: "operations",
			desc:     "Draft timetable pending management review.",
			priority: model.PriorityLow,
			status:   model.StatusPending,
		},
	}

	content := []byte("%PDF-1.4\n% demo placeholder document\n%%EOF\n")

	count := 0
	for _, d := range demo {
		id := uuid.New().String()
		key := "documents/" + id + ".pdf"

		if _, err := objStore.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
			Size:        int64(len(content)),
			ContentType: "application/pdf",
		}); err != nil {
			return count, fmt.Errorf("store %q: %w", d.title, err)
		}

		doc, err := docs.Create(ctx, &model.Document{
			ID:          id,
			Title:       d.title,
			Category:    d.category,
			Description: d.desc,
			Priority:    d.priority,
			Status:      d.status,
			FileName:    id + ".pdf",
			StoragePath: key,
			Size:        int64(len(content)),
			ContentType: "application/pdf",
			UploadedBy:  admin.UserID,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return count, fmt.Errorf("create %q: %w", d.title, err)
		}

		if d.assign {
			if _, err := assignments.Replace(ctx, doc.ID, []string{employee.UserID}); err != nil {
				return count, fmt.Errorf("assign %q: %w", d.title, err)
			}
		}
		count++
	}

	return count, nil
}
