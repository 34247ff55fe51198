package database

import (
	"fmt"
	"log"
	"os"

	"exhibits-app/internal/domain/exhibits"
	"exhibits-app/internal/domain/media"
	"exhibits-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(models()...); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}

func models() []interface{} {
	return []interface{}{
		&users.User{},
		&media.File{},
		&exhibits.Exhibit{},
		&exhibits.Item{},
	}
}
