package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"restaurant-site/config"
	"restaurant-site/db"
	"restaurant-site/models"
	"restaurant-site/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedMenu is the YAML menu accepted by `seed`. Item category ids are
// ignored; each item goes to the category it is listed under.
type seedMenu struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	models.CreateMenuCategoryInput `yaml:",inline"`
	Items                          []models.CreateMenuItemInput `yaml:"items"`
}

func loadSeedMenu(path string) (*seedMenu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	var menu seedMenu
	if err := yaml.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("parse menu %s: %w", path, err)
	}
	if len(menu.Categories) == 0 {
		return nil, fmt.Errorf("menu %s has no categories", path)
	}
	return &menu, nil
}

// seedCatalog creates every category and item through the catalog, so seeded
// rows pass the same validation as API writes. It stops at the first error.
func seedCatalog(ctx context.Context, catalog *services.Catalog, menu *seedMenu) (categories, items int, err error) {
	for _, sc := range menu.Categories {
		category, err := catalog.CreateMenuCategory(ctx, sc.CreateMenuCategoryInput)
		if err != nil {
			return categories, items, fmt.Errorf("category %q: %w", sc.Name, err)
		}
		categories++
		for _, in := range sc.Items {
			in.CategoryID = category.ID
			if _, err := catalog.CreateMenuItem(ctx, in); err != nil {
				return categories, items, fmt.Errorf("item %q in %q: %w", in.Name, sc.Name, err)
			}
			items++
		}
	}
	return categories, items, nil
}

func newSeedCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "seed <menu.yaml>",
		Short: "Create menu categories and items from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			menu, err := loadSeedMenu(args[0])
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cmd.Context(), cfg, memory)
			if err != nil {
				return err
			}
			defer closeStore()

			categories, items, err := seedCatalog(cmd.Context(), services.NewCatalog(store), menu)
			if err != nil {
				return err
			}
			log.Info().
				Str("action", "seed").
				Str("file", args[0]).
				Int("categories", categories).
				Int("items", items).
				Msg("Menu seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "validate the menu against an in-memory store only")
	return cmd
}

// newCategoryCmd toggles category visibility; the public API has no such
// operation.
func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Show or hide a menu category",
	}
	cmd.AddCommand(setActiveCmd("activate", true), setActiveCmd("deactivate", false))
	return cmd
}

func setActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <category-id>",
		Short: use + " a menu category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("category id %q: %w", args[0], err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return setCategoryActive(cmd.Context(), cfg.DB, id, active)
		},
	}
}

func setCategoryActive(ctx context.Context, cfg config.DBConfig, id int64, active bool) error {
	if err := db.Init(ctx, cfg); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	ok, err := db.NewStore(db.Pool).SetCategoryActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("menu category with id %d does not exist", id)
	}
	log.Info().Str("action", "category_set_active").Int64("category_id", id).Bool("active", active).Msg("Category updated")
	return nil
}
