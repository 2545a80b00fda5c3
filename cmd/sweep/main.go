// Command sweep inspects the duplication window left behind by interrupted
// moves: an image id present in both images and deleted_images means a
// delete or recover wrote its destination row and failed before removing
// the source. The tool reports such ids and, with -resolve, completes the
// move by removing one of the two copies. Both copies carry the same
// payload, so neither resolution loses data.
package main

import (
	"flag"
	"log"
	"os"

	"photovault/internal/database"
)

func main() {
	resolve := flag.String("resolve", "", `complete interrupted moves: "archive" keeps the archived copy, "live" keeps the live copy; empty only reports`)
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	var ids []int64
	err = db.Table("deleted_images").
		Select("deleted_images.id").
		Joins("INNER JOIN images ON images.id = deleted_images.id").
		Order("deleted_images.id").
		Scan(&ids).Error
	if err != nil {
		log.Fatalf("sweep query failed: %v", err)
	}

	if len(ids) == 0 {
		log.Println("sweep: no duplicated image ids")
		return
	}

	log.Printf("sweep: %d image id(s) present in both tables: %v", len(ids), ids)

	switch *resolve {
	case "":
		log.Println("sweep: report only, pass -resolve=archive or -resolve=live to complete the moves")
	case "archive":
		res := db.Exec(`DELETE FROM images WHERE id IN (SELECT id FROM deleted_images)`)
		if res.Error != nil {
			log.Fatalf("sweep resolve=archive failed: %v", res.Error)
		}
		log.Printf("sweep: removed %d live row(s), archived copies kept", res.RowsAffected)
	case "live":
		res := db.Exec(`DELETE FROM deleted_images WHERE id IN (SELECT id FROM images)`)
		if res.Error != nil {
			log.Fatalf("sweep resolve=live failed: %v", res.Error)
		}
		log.Printf("sweep: removed %d archived row(s), live copies kept", res.RowsAffected)
	default:
		log.Fatalf("unknown -resolve value %q", *resolve)
	}
}
