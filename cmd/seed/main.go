package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"family-finance/internal/models"
	"family-finance/internal/repository"
	"family-finance/pkg/auth"
	"family-finance/pkg/config"
	"family-finance/pkg/logger"
	"family-finance/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "demo@familia.dev", "demo user e-mail")
	password := flag.String("password", "demo12345", "demo user password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.Init(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	users := repository.NewUserRepository(db, appLogger)
	if _, err := users.GetByEmail(ctx, *email); err == nil {
		appLogger.Info("Demo household already exists, nothing to do", zap.String("email", *email))
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		appLogger.Fatal("Failed to look up demo user", zap.Error(err))
	}

	appLogger.Info("Starting database seeding...")

	hash, err := auth.HashPassword(*password)
	if err != nil {
		appLogger.Fatal("Failed to hash password", zap.Error(err))
	}
	now := time.Now()
	user := &models.User{
		ID:          uuid.New(),
		DisplayName: "Família Demo",
		Email:       *email,
		Password:    hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := users.Create(ctx, user); err != nil {
		appLogger.Fatal("Failed to create demo user", zap.Error(err))
	}

	if err := seedHousehold(ctx, newSeedRepos(db, appLogger), user, now); err != nil {
		appLogger.Fatal("Failed to seed household", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!", zap.String("email", *email))
}

type seedRepos struct {
	Transactions *repository.TransactionRepository
	Goals        *repository.GoalRepository
	Cards        *repository.CardRepository
	Accounts     *repository.AccountRepository
	Profiles     *repository.ProfileRepository
	Categories   *repository.CategoryRepository
}

func newSeedRepos(db *pgxpool.Pool, logger *zap.Logger) seedRepos {
	return seedRepos{
		Transactions: repository.NewTransactionRepository(db, logger),
		Goals:        repository.NewGoalRepository(db, logger),
		Cards:        repository.NewCardRepository(db, logger),
		Accounts:     repository.NewAccountRepository(db, logger),
		Profiles:     repository.NewProfileRepository(db, logger),
		Categories:   repository.NewCategoryRepository(db, logger),
	}
}

// seedHousehold fills six months of history for the demo user.
func seedHousehold(ctx context.Context, r seedRepos, user *models.User, now time.Time) error {
	owner := user.ID

	if err := r.Categories.InsertBatch(ctx, owner, models.DefaultCategories()); err != nil {
		return err
	}

	self := models.DefaultProfile(owner, user.Email)
	self.Name = user.DisplayName
	self.Role = "Admin"
	if _, err := r.Profiles.Insert(ctx, owner, self); err != nil {
		return err
	}
	partnerIncome := decimal.NewFromInt(6200)
	partner, err := r.Profiles.Insert(ctx, owner, models.FamilyMember{
		Name: "Marina", Role: models.DefaultMemberRole, Income: &partnerIncome,
	})
	if err != nil {
		return err
	}

	checking, err := r.Accounts.Insert(ctx, owner, models.BankAccount{
		Name: "Conta Corrente", Type: models.AccountChecking, Balance: decimal.RequireFromString("8450.75"), Color: "#EC7000",
	})
	if err != nil {
		return err
	}
	if _, err := r.Accounts.Insert(ctx, owner, models.BankAccount{
		Name: "Reserva", Type: models.AccountSavings, Balance: decimal.RequireFromString("15200.00"), Color: "#22C55E",
	}); err != nil {
		return err
	}

	card, err := r.Cards.Insert(ctx, owner, models.CreditCard{
		Name: "Nubank", ClosingDay: 3, DueDay: 10, Limit: decimal.NewFromInt(8000),
		CurrentInvoice: decimal.RequireFromString("1240.30"), Theme: models.ThemePurple,
		Last4Digits: "4821", BankName: "Nubank",
	})
	if err != nil {
		return err
	}

	three := 3
	for i := 0; i < 6; i++ {
		month := now.AddDate(0, -i, 0)
		day := func(d int) models.Date { return models.NewDate(month.Year(), month.Month(), d) }
		txs := []models.Transaction{
			{Type: models.TypeIncome, Amount: decimal.NewFromInt(9500), Description: "Salário", Category: "Salário", Date: day(5), AccountID: checking.ID, Source: models.SourceAccount},
			{Type: models.TypeExpense, Amount: decimal.NewFromInt(2800), Description: "Aluguel", Category: "Moradia", Date: day(10), AccountID: checking.ID, Source: models.SourceAccount},
			{Type: models.TypeExpense, Amount: decimal.RequireFromString("1130.45"), Description: "Supermercado", Category: "Alimentação", Date: day(12), AccountID: card.ID, Source: models.SourceCard, MemberID: &partner.ID},
			{Type: models.TypeExpense, Amount: decimal.RequireFromString("320.90"), Description: "Combustível", Category: "Transporte", Date: day(18), AccountID: card.ID, Source: models.SourceCard},
		}
		if i == 0 {
			txs = append(txs, models.Transaction{
				Type: models.TypeExpense, Amount: decimal.NewFromInt(3600), Description: "Notebook", Category: "Educação",
				Date: day(2), AccountID: card.ID, Source: models.SourceCard, Installments: &three, Status: models.StatusPending,
			})
		}
		for _, tx := range txs {
			if tx.Status == "" {
				tx.Status = models.StatusCompleted
			}
			if _, err := r.Transactions.Insert(ctx, owner, tx); err != nil {
				return err
			}
		}
	}

	_, err = r.Goals.Insert(ctx, owner, models.FinanceGoal{
		Name: "Viagem de férias", Description: "Nordeste em julho", TargetAmount: decimal.NewFromInt(12000),
		CurrentAmount: decimal.NewFromInt(4300), Category: "Lazer", Deadline: models.DateOf(now.AddDate(0, 8, 0)),
		Status: models.GoalActive, YieldType: models.YieldCDI,
	})
	return err
}
