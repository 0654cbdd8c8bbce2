package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"harlos/internal/auth"
	"harlos/internal/config"
	"harlos/internal/db"
	"harlos/internal/model"
	"harlos/internal/repository"
)

// seedUser is a demo learner account.
type seedUser struct {
	FullName         string
	Email            string
	Password         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
	ProfilePic       string
}

var roster = []seedUser{
	{"Ana Moreira", "ana@example.com", "secret1", "Porto native, practicing my English over coffee chats.", "portuguese", "english", "Porto, Portugal", "https://avatar.iran.liara.run/public/12.png"},
	{"Kenji Sato", "kenji@example.com", "secret2", "Engineer in Osaka, looking for Spanish conversation partners.", "japanese", "spanish", "Osaka, Japan", "https://avatar.iran.liara.run/public/33.png"},
	{"Marie Dubois", "marie@example.com", "secret3", "Happy to trade French lessons for German ones.", "french", "german", "Lyon, France", "https://avatar.iran.liara.run/public/48.png"},
	{"Diego Fernandez", "diego@example.com", "secret4", "Teacher from Buenos Aires, slowly taming Mandarin tones.", "spanish", "mandarin", "Buenos Aires, Argentina", "https://avatar.iran.liara.run/public/57.png"},
	{"Lena Hoffmann", "lena@example.com", "secret5", "Berliner improving my Italian for a move to Rome.", "german", "italian", "Berlin, Germany", "https://avatar.iran.liara.run/public/71.png"},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	mongoClient, err := db.NewMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	users := repository.NewUserRepository(mongoClient.Database(cfg.MongoDB))
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	created := 0
	for _, su := range roster {
		if _, err := users.FindByEmail(ctx, su.Email); err == nil {
			log.Printf("skipping %s: already exists", su.Email)
			continue
		} else if err != mongo.ErrNoDocuments {
			log.Fatalf("lookup %s: %v", su.Email, err)
		}

		hashed, err := auth.HashPassword(su.Password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", su.Email, err)
		}

		user := &model.User{
			FullName:         su.FullName,
			Email:            su.Email,
			PasswordHash:     hashed,
			Bio:              su.Bio,
			NativeLanguage:   su.NativeLanguage,
			LearningLanguage: su.LearningLanguage,
			Location:         su.Location,
			ProfilePic:       su.ProfilePic,
			IsOnboarded:      true,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("create %s: %v", su.Email, err)
		}
		created++
		log.Printf("created %s (%s)", su.FullName, su.Email)
	}

	log.Printf("Seed complete: %d created, %d skipped", created, len(roster)-created)
}
