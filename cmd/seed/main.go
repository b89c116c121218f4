package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"talkative/auth"
	"talkative/domain"
	"talkative/internal"
	"talkative/repositories"
)

// The seed binary provisions users and rooms for local runs: the
// friendship and registration workflows live in another service, so a
// fresh store would otherwise reject every connection.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	users := flag.String("users", "alice,bob,carol", "Comma separated usernames to create")
	groupName := flag.String("group", "general", "Group room to create with every user as member")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	userRepository := repositories.NewUserRepository(db)
	roomRepository, err := repositories.NewRoomRepository(db, logger)
	if err != nil {
		log.Fatalf("Room repository: %v", err)
	}
	defer roomRepository.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Username", "Token"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	var members []domain.GroupMember
	var ids []domain.UserID
	for i, username := range internal.WordList(*users) {
		id := domain.UserID(i + 1)
		if err := userRepository.SaveUser(repositories.User{
			ID:        id,
			Username:  username,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			log.Fatalf("Saving user %s: %v", username, err)
		}
		token, err := auth.GenerateToken(id, username, config.AuthTokenDuration)
		if err != nil {
			log.Fatalf("Token for %s: %v", username, err)
		}
		table.Append([]string{fmt.Sprintf("%d", id), username, token})
		members = append(members, domain.GroupMember{UserID: id, Role: domain.RoleMember})
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		log.Fatal("No users to seed")
	}

	group, err := roomRepository.CreateGroup(*groupName, ids[0], members)
	if err != nil {
		log.Fatalf("Creating group: %v", err)
	}
	fmt.Printf("Group %q created: ws/chat/%d/?type=group\n", group.Name, group.ID)

	if len(ids) >= 2 {
		dm, err := roomRepository.CreateDirectRoom(ids[0], ids[1])
		if err != nil {
			log.Fatalf("Creating direct room: %v", err)
		}
		fmt.Printf("Direct room created: ws/chat/%d/?type=dm\n", dm.ID)
	}

	table.Render()
}
