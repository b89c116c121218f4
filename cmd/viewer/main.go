package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"talkative/internal"
)

// The viewer opens the store read-only and dumps message rows as a
// table, without stopping a running server.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	kind := flag.String("kind", "group", "Room kind (group|dm)")
	room := flag.Int64("room", 0, "Room id (0 scans every room of the kind)")
	flag.Parse()

	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	prefix := fmt.Sprintf("msg:%s:", *kind)
	if *room > 0 {
		prefix = fmt.Sprintf("msg:%s:%d:", *kind, *room)
	}
	header := color.New(color.BgBlack, color.FgGreen).Render(fmt.Sprintf(" Messages %s ", prefix))
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Room", "Sender", "Sent", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var stored struct {
					ID         int64     `json:"id"`
					Room       int64     `json:"room"`
					RoomKind   string    `json:"room_kind"`
					SenderName string    `json:"sender_name"`
					Content    string    `json:"content"`
					Deleted    bool      `json:"deleted"`
					At         time.Time `json:"at"`
				}
				if err := json.Unmarshal(v, &stored); err != nil {
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				content := stored.Content
				if stored.Deleted {
					content = color.Gray.Render("(deleted)")
				}
				table.Append([]string{
					fmt.Sprintf("%d", stored.ID),
					fmt.Sprintf("%s:%d", stored.RoomKind, stored.Room),
					stored.SenderName,
					stored.At.Format(time.RFC3339),
					content,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	table.Render()
}
