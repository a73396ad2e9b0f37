package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"salescrm/internal/config"
	"salescrm/internal/database"
	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

// Seeds a demo workspace: users for each role, a sales pipeline with
// five stages, companies, contacts and a handful of deals spread across
// the board.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	users := repository.NewUserRepository(db)
	companies := repository.NewCompanyRepository(db)
	contacts := repository.NewContactRepository(db)
	pipelines := repository.NewPipelineRepository(db)
	deals := repository.NewDealRepository(db)

	if n, err := users.Count(ctx); err != nil {
		log.Fatalf("count users: %v", err)
	} else if n > 0 {
		log.Println("database already seeded, nothing to do")
		return
	}

	seedUser(ctx, users, "admin@example.com", "Alex Admin", domain.RoleAdmin)
	manager := seedUser(ctx, users, "manager@example.com", "Maria Manager", domain.RoleManager)
	agent := seedUser(ctx, users, "agent@example.com", "Sam Seller", domain.RoleAgent)

	pipeline := &domain.Pipeline{Name: "Sales", Description: "Default sales pipeline"}
	if err := pipelines.Create(ctx, pipeline); err != nil {
		log.Fatalf("create pipeline: %v", err)
	}

	stageTitles := []struct {
		title     string
		color     string
		isDefault bool
	}{
		{"Prospecting", "#6366f1", true},
		{"Qualified", "#0ea5e9", false},
		{"Proposal", "#f59e0b", false},
		{"Won", "#22c55e", false},
		{"Lost", "#ef4444", false},
	}
	stages := make([]domain.PipelineStage, 0, len(stageTitles))
	for i, st := range stageTitles {
		stage := domain.PipelineStage{
			PipelineID: pipeline.ID,
			Title:      st.title,
			Position:   i,
			Color:      st.color,
			IsDefault:  st.isDefault,
		}
		if err := pipelines.CreateStage(ctx, &stage); err != nil {
			log.Fatalf("create stage %q: %v", st.title, err)
		}
		stages = append(stages, stage)
	}

	acme := &domain.Company{Name: "Acme Coffee", Industry: "Hospitality", Phone: "+1 555 0100", OwnerID: manager.ID}
	bolt := &domain.Company{Name: "Bolt Logistics", Industry: "Transport", Website: "https://bolt.example", OwnerID: agent.ID}
	for _, c := range []*domain.Company{acme, bolt} {
		if err := companies.Create(ctx, c); err != nil {
			log.Fatalf("create company %q: %v", c.Name, err)
		}
	}

	jane := &domain.Contact{Name: "Jane Roaster", Email: "jane@acme.example", Phone: "+1 555 0101", CompanyID: &acme.ID, OwnerID: agent.ID}
	piotr := &domain.Contact{Name: "Piotr Dispatch", Email: "piotr@bolt.example", Phone: "+1 555 0102", CompanyID: &bolt.ID, OwnerID: agent.ID}
	for _, c := range []*domain.Contact{jane, piotr} {
		if err := contacts.Create(ctx, c); err != nil {
			log.Fatalf("create contact %q: %v", c.Name, err)
		}
	}

	closeDate := time.Now().AddDate(0, 1, 0)
	demoDeals := []*domain.Deal{
		{Title: "Espresso machines for Acme", Value: 12500, Stage: stages[0].Title, PipelineID: pipeline.ID, ContactID: &jane.ID, CompanyID: &acme.ID, OwnerID: agent.ID, ExpectedCloseDate: &closeDate},
		{Title: "Fleet tracking rollout", Value: 48000, Stage: stages[1].Title, PipelineID: pipeline.ID, ContactID: &piotr.ID, CompanyID: &bolt.ID, OwnerID: agent.ID},
		{Title: "Annual beans contract", Value: 9200, Stage: stages[2].Title, PipelineID: pipeline.ID, ContactID: &jane.ID, CompanyID: &acme.ID, OwnerID: manager.ID},
		{Title: "Warehouse expansion", Value: 31000, Stage: stages[3].Title, PipelineID: pipeline.ID, ContactID: &piotr.ID, CompanyID: &bolt.ID, OwnerID: manager.ID},
	}
	for _, d := range demoDeals {
		if err := deals.Create(ctx, d); err != nil {
			log.Fatalf("create deal %q: %v", d.Title, err)
		}
	}

	log.Println("seed complete: 3 users, 1 pipeline, 5 stages, 2 companies, 2 contacts, 4 deals")
	log.Println("login with admin@example.com / password123")
}

func seedUser(ctx context.Context, repo *repository.UserRepository, email, name string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create user %q: %v", email, err)
	}
	return u
}
