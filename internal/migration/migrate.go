package migration

import (
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all tables and seeds default data if empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Page{},
		&domain.PageHistory{},
		&domain.Menu{},
	); err != nil {
		return err
	}

	// Seed only on a fresh database
	var count int64
	db.Model(&domain.Page{}).Count(&count)
	if count == 0 {
		return seed(db)
	}
	return nil
}

// seed creates the system account, the starter pages, and a root menu
// entry for each.
func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		admin := &domain.User{
			DiscordID: "system_admin",
			Username:  "System Admin",
			Role:      domain.RoleAdmin,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		home := &domain.Page{
			Title:    "Home",
			Slug:     "home",
			Content:  "# Welcome to the Zen Server Wiki\n\nThis wiki holds everything about the Zen server.\n\n## Features\n- Create, edit, and delete pages\n- Menu management\n- Discord login\n- Role-based permissions",
			AuthorID: admin.ID,
			IsPublished: true,
		}
		rules := &domain.Page{
			Title:    "Server Rules",
			Slug:     "rules",
			Content:  "# Server Rules\n\n## General\n1. Respect other players\n2. No griefing\n3. No cheats or hacks\n\n## Building\n1. Do not build on someone else's land without asking\n2. Discuss builds in public areas beforehand",
			AuthorID: admin.ID,
			IsPublished: true,
		}
		if err := tx.Create(home).Error; err != nil {
			return err
		}
		if err := tx.Create(rules).Error; err != nil {
			return err
		}

		menus := []domain.Menu{
			{Title: "Home", PageID: &home.ID, OrderIndex: 0, IsActive: true},
			{Title: "Server Rules", PageID: &rules.ID, OrderIndex: 1, IsActive: true},
		}
		for i := range menus {
			if err := tx.Create(&menus[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
