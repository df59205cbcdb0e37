package apitest

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/mimic/pkg/logger"
)

// Constants for random payload generation.
const (
	descriptionChance  = 4
	adjectiveDivisor   = 8
	describedOutOf     = 3
	maxDescriptionSize = 64
)

// Adjectives used to vary generated item names.
var adjectives = []string{
	"red", "blue", "green", "compact", "deluxe", "vintage", "spare", "heavy",
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateItems creates the specified number of item payloads with unique names.
func generateItems(ctx context.Context, config *Config, stats *Stats) ([]Item, error) {
	logger.Get().Info(ctx, "generating item payloads", logger.Int("numItems", config.NumItems))

	items := make([]Item, config.NumItems)
	for i := 0; i < config.NumItems; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		items[i] = generateSingleItem(i)
	}

	stats.ItemsGenerated = len(items)
	logger.Get().Info(ctx, "generated item payloads successfully", logger.Int("count", len(items)))

	return items, nil
}

// generateSingleItem creates a single item payload with the given index.
// Names are unique per run; roughly a quarter of the items omit the
// description so both echo shapes get exercised.
func generateSingleItem(index int) Item {
	adjective := adjectives[randomInt(adjectiveDivisor)%int64(len(adjectives))]
	name := adjective + " item " + strconv.Itoa(index) + " " + uuid.New().String()

	item := Item{Name: name}
	if randomInt(descriptionChance) < describedOutOf {
		desc := "generated description for item " + strconv.Itoa(index)
		if len(desc) > maxDescriptionSize {
			desc = desc[:maxDescriptionSize]
		}
		item.Description = &desc
	}
	return item
}
