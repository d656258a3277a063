package main

import (
	"fmt"
	"os"

	"github.com/playmatatu/minigolf/internal/admin"
	"github.com/playmatatu/minigolf/internal/logging"
)

// Prints the ADMIN_KEY_HASH value for the key in ADMIN_KEY.
func main() {
	if err := logging.Init("development", "info"); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.L()

	key := os.Getenv("ADMIN_KEY")
	if key == "" {
		log.Fatalf("ADMIN_KEY is not set")
	}

	hash, err := admin.HashAdminKey(key)
	if err != nil {
		log.Fatalf("Failed to hash admin key: %v", err)
	}

	log.Infof("Set this in the server environment:")
	fmt.Printf("ADMIN_KEY_HASH=%s\n", hash)
}
