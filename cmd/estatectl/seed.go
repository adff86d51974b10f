package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"luxestate/internal/auth"
	"luxestate/internal/config"
	"luxestate/internal/db"
	"luxestate/internal/logger"
	"luxestate/internal/model"
	"luxestate/internal/repository"
	"luxestate/internal/service"
)

// SeedFile is the fixture format read by `estatectl seed`.
type SeedFile struct {
	Agents []SeedAgent `json:"agents"`
}

// SeedAgent is an agent account and the listings it owns.
type SeedAgent struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	Properties []model.Property `json:"properties"`
}

// SeedResult counts what a seed run created.
type SeedResult struct {
	Agents     int
	Properties int
	Skipped    int
}

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load agents and their properties from a JSON fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixture, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			if err := db.Migrate(a.db, false); err != nil {
				return err
			}
			result, err := seed(cmd.Context(), a.db, a.cfg, fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d agents and %d properties (%d agents already present)\n",
				result.Agents, result.Properties, result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON fixture")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var fixture SeedFile
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &fixture, nil
}

// seed registers each agent and lists its properties. Agents whose email is
// already registered are skipped with their properties, so re-running a
// fixture is a no-op.
func seed(ctx context.Context, gormDB *gorm.DB, cfg *config.Config, fixture *SeedFile) (SeedResult, error) {
	var result SeedResult
	log := logger.WithContext(ctx)

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewTokenService(cfg.JWTSecret))
	propertyService := service.NewPropertyService(repository.NewPropertyRepository(gormDB), userRepo, nil, cfg.Policy)

	for _, agent := range fixture.Agents {
		email := strings.ToLower(strings.TrimSpace(agent.Email))
		existing, err := userRepo.FindByEmail(ctx, email)
		if err == nil && existing != nil {
			log.Info("agent already present, skipping", "email", email)
			result.Skipped++
			continue
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}

		_, user, err := authService.Register(ctx, service.RegisterInput{
			Name:     agent.Name,
			Email:    email,
			Password: agent.Password,
			Role:     model.RoleAgent,
		})
		if err != nil {
			return result, fmt.Errorf("register %s: %w", email, err)
		}
		result.Agents++

		for i := range agent.Properties {
			if _, err := propertyService.Create(ctx, &agent.Properties[i], user.ID); err != nil {
				return result, fmt.Errorf("create property %q: %w", agent.Properties[i].Title, err)
			}
			result.Properties++
		}
	}
	return result, nil
}
