package inits

import (
	"context"
	"encoding/json"
	"log"

	"qmoi_services/src/friendship"
	m "qmoi_services/src/models"
)

// LoadProfiles warms the friendship core with the persisted profile
// snapshots so relationships survive a restart.
func LoadProfiles(ctx context.Context, connPool *m.PGPool, core *friendship.Core) {
	query := `SELECT facts FROM profiles`

	rows, err := connPool.Pool.Query(ctx, query)
	if err != nil {
		log.Printf("Error query profiles with error: %v", err)
		return
	}

	loaded := 0
	for rows.Next() {
		var facts []byte

		err := rows.Scan(&facts)
		if err != nil {
			log.Printf("Error scanning profile snapshot: %v", err)
			return
		}

		var profile friendship.Profile
		err = json.Unmarshal(facts, &profile)
		if err != nil {
			log.Printf("Error parsing profile snapshot: %v", err)
			continue
		}

		core.Restore(profile)
		loaded++
	}

	log.Printf("Loaded %v relationship profiles", loaded)
}
