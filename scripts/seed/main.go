// Seed inserts sample todos, reminders and calendar events. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"syfw-todo/internal/config"
	"syfw-todo/internal/database"
	"syfw-todo/internal/models"
	"syfw-todo/internal/repository"
)

var importances = []string{"low", "medium", "high"}

func main() {
	n := flag.Int("n", 100, "records per collection")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config failed:", err)
		os.Exit(1)
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	store := repository.New(db)
	start := time.Now()
	base := start.Truncate(time.Hour)

	for i := 1; i <= *n; i++ {
		todo := models.Todo{
			Title:     models.Some(fmt.Sprintf("Todo %d", i)),
			Completed: i%3 == 0,
		}
		if i%2 == 0 {
			todo.Description = models.Some(fmt.Sprintf("Description for todo %d", i))
		}
		if err := store.CreateTodo(ctx, &todo); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert todo failed:", err)
			os.Exit(1)
		}

		rm := models.Reminder{
			ReminderText: fmt.Sprintf("Reminder %d", i),
			Importance:   importances[i%len(importances)],
		}
		if err := store.CreateReminder(ctx, &rm); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert reminder failed:", err)
			os.Exit(1)
		}

		from := base.Add(time.Duration(i) * time.Hour)
		ev := models.CalendarEvent{
			Title:       fmt.Sprintf("Event %d", i),
			Description: fmt.Sprintf("Description for event %d", i),
			EventFrom:   from,
			EventTo:     from.Add(30 * time.Minute),
		}
		if err := store.CreateCalendarEvent(ctx, &ev); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert calendar event failed:", err)
			os.Exit(1)
		}
		fmt.Printf("\rInserted %d / %d", i, *n)
	}

	fmt.Printf("\nDone: %d records per collection in %v\n", *n, time.Since(start))
}
