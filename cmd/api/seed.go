package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"gopkg.in/yaml.v2"
)

// seedFile is the demo catalog loaded from SEED_PATH.
type seedFile struct {
	Users []models.User `yaml:"users"`
	Items []seedItem    `yaml:"items"`
}

type seedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
	OwnerEmail  string `yaml:"owner_email"`
}

type seedStore interface {
	domain.UserRepository
	domain.ItemRepository
}

func loadSeed(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// applySeed inserts the seed only into an empty store, so restarts never
// duplicate the demo data.
func applySeed(ctx context.Context, store seedStore, seed *seedFile) (users, items int, err error) {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return 0, 0, nil
	}

	owners := make(map[string]int64, len(seed.Users))
	for i := range seed.Users {
		u := seed.Users[i]
		if err := store.CreateUser(ctx, &u); err != nil {
			return users, items, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		owners[strings.ToLower(u.Email)] = u.ID
		users++
	}

	for _, si := range seed.Items {
		ownerID, ok := owners[strings.ToLower(si.OwnerEmail)]
		if !ok {
			return users, items, fmt.Errorf("seed item %q: unknown owner %q", si.Name, si.OwnerEmail)
		}
		item := &models.Item{
			Name:        si.Name,
			Description: si.Description,
			Available:   si.Available,
			OwnerID:     ownerID,
		}
		if err := store.CreateItem(ctx, item); err != nil {
			return users, items, fmt.Errorf("seed item %q: %w", si.Name, err)
		}
		items++
	}

	return users, items, nil
}
