package config

import (
	"context"
	"log"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/password"
)

// Seeder bootstraps the admin account, the capability role grants and the
// supported stablecoins. It works against the repository interfaces so both
// the MySQL and the in-memory store get the same baseline.
type Seeder struct {
	userRepo  repositories.UserRepository
	roleRepo  repositories.RoleRepository
	tokenRepo repositories.TokenRepository
	cfg       *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository, tokenRepo repositories.TokenRepository, cfg *Config) *Seeder {
	return &Seeder{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	if err := s.seedTokens(ctx); err != nil {
		return err
	}

	log.Println("✅ Seeding completed")
	return nil
}

// seedAdminUser seeds the default admin user.
// Development/testing convenience; in production create the admin through a
// secure process and set ADMIN_ADDRESS accordingly.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	exists, err := s.userRepo.ExistsByAddress(ctx, s.cfg.Ledger.AdminAddress)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Address:  s.cfg.Ledger.AdminAddress,
		Username: "admin",
		Email:    "admin@afridaily.app",
		Password: hashedPassword,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("🌱 Admin user seeded (address: %s)", admin.Address)
	return nil
}

// seedRoles grants the baseline capability roles: the admin wallet gets
// ADMIN and LENDER, and the lending engine's internal identity gets
// AUTHORIZED_CALLER so it may write credit records.
func (s *Seeder) seedRoles(ctx context.Context) error {
	grants := []struct {
		address string
		role    string
	}{
		{s.cfg.Ledger.AdminAddress, domain.RoleAdmin},
		{s.cfg.Ledger.AdminAddress, domain.RoleLender},
		{domain.ModuleLending, domain.RoleAuthorizedCaller},
	}

	for _, g := range grants {
		if err := s.roleRepo.Grant(ctx, g.address, g.role, "seeder"); err != nil {
			return err
		}
	}
	return nil
}

// seedTokens registers the supported stablecoins
func (s *Seeder) seedTokens(ctx context.Context) error {
	tokens := []*models.SupportedToken{
		{Symbol: "cUSD", Name: "Celo Dollar", Decimals: 18, IsActive: true},
		{Symbol: "cNGN", Name: "Celo Nigerian Naira", Decimals: 18, IsActive: true},
	}

	for _, t := range tokens {
		if _, err := s.tokenRepo.GetToken(ctx, t.Symbol); err == nil {
			continue
		}
		if err := s.tokenRepo.CreateToken(ctx, t); err != nil {
			return err
		}
		log.Printf("🌱 Token seeded: %s", t.Symbol)
	}
	return nil
}
