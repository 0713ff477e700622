package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrewpaige1/tcm-study-api/auth"
	"github.com/andrewpaige1/tcm-study-api/config"
	"github.com/andrewpaige1/tcm-study-api/logger"
	"github.com/andrewpaige1/tcm-study-api/models"
)

func openDB() (*gorm.DB, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	return config.Connect(env, logger.Nop())
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			user, created, err := ensureAdmin(db, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "promoted %s (id %d) to admin\n", user.Email, user.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	cmd.MarkFlagRequired("email")
	return cmd
}

// ensureAdmin promotes the account with email, creating it when password is
// given and no such account exists.
func ensureAdmin(db *gorm.DB, email, password string) (models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return user, false, fmt.Errorf("promote %s: %w", email, err)
		}
		return user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return user, false, fmt.Errorf("look up %s: %w", email, err)
	}

	if password == "" {
		return user, false, fmt.Errorf("no account for %s, pass --password to create one", email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return user, false, err
	}
	user = models.User{Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		return user, false, fmt.Errorf("create %s: %w", email, err)
	}
	return user, true, nil
}
