package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"eventsort/pkg/database"
	"eventsort/pkg/utils"
)

// dbtool is the maintenance hatch: initialize the schema, dump the events
// table, or wipe everything and start over.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := utils.LoadStorageConfig()
	db := database.MustOpen(cfg.Path)
	defer db.Close()

	switch os.Args[1] {
	case "init":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		log.Printf("✅ database initialized at %s", cfg.Path)
	case "view":
		if err := view(db); err != nil {
			log.Fatalf("view failed: %v", err)
		}
	case "reset":
		if _, err := db.Exec(`DROP TABLE IF EXISTS events; DROP TABLE IF EXISTS login_tokens;`); err != nil {
			log.Fatalf("drop tables failed: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		log.Println("✅ database reset")
	default:
		usage()
		os.Exit(1)
	}
}

func view(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT id, user_id, username, title, event_type, date, user_interested, parse_error, date_created
		FROM events
		ORDER BY date_created DESC
	`)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			id, userID int64
			username   sql.NullString
			title      string
			eventType  string
			date       string
			interested sql.NullBool
			parseErr   bool
			created    time.Time
		)
		if err := rows.Scan(&id, &userID, &username, &title, &eventType, &date, &interested, &parseErr, &created); err != nil {
			return fmt.Errorf("scan event: %w", err)
		}

		swipe := "pending"
		if interested.Valid {
			if interested.Bool {
				swipe = "interested"
			} else {
				swipe = "not interested"
			}
		}
		flag := ""
		if parseErr {
			flag = "  [parse_error]"
		}
		fmt.Printf("#%d  %s [%s]  %s  by %s(%d)  %s  %s%s\n",
			id, title, eventType, date, username.String, userID,
			swipe, created.Format("2006-01-02 15:04"), flag)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows err: %w", err)
	}
	fmt.Printf("%d events\n", count)
	return nil
}

func usage() {
	fmt.Println(`dbtool <init|view|reset>

  init   create tables if missing
  view   print all saved events
  reset  drop and recreate all tables`)
}
