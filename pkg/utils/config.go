package utils

import (
	"cardvault/pkg/logger"
)

type TablesConfig struct {
	Cards      string
	Collection string
	Decks      string
	Endpoint   string
}

// LoadTablesConfig resolves table names. DYNAMODB_TABLE_NAME is honoured as
// an alias for the cards table since the catalog job is deployed with it.
func LoadTablesConfig(log *logger.Logger) TablesConfig {
	cards := GetEnv("CARDS_TABLE_NAME", "", log)
	if cards == "" {
		cards = GetEnv("DYNAMODB_TABLE_NAME", "cards", log)
	}
	return TablesConfig{
		Cards:      cards,
		Collection: GetEnv("COLLECTION_TABLE_NAME", "collection", log),
		Decks:      GetEnv("DECK_TABLE_NAME", "decks", log),
		Endpoint:   GetEnv("DYNAMODB_ENDPOINT", "", log),
	}
}

type ServerConfig struct {
	Addr           string
	SyncTCPEnabled bool
	SyncTCPAddr    string
	AllowedOrigins []string
	UserPoolID     string
	ClientID       string
	EventBusARN    string
}

func LoadServerConfig(log *logger.Logger) ServerConfig {
	return ServerConfig{
		Addr:           GetEnv("HTTP_ADDR", ":8080", log),
		SyncTCPEnabled: GetEnvAsBool("SYNC_TCP_ENABLED", false, log),
		SyncTCPAddr:    GetEnv("SYNC_TCP_ADDR", "127.0.0.1:7070", log),
		AllowedOrigins: GetEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}, log),
		UserPoolID:     GetEnv("USER_POOL_ID", "", log),
		ClientID:       GetEnv("USER_POOL_CLIENT_ID", "", log),
		EventBusARN:    GetEnv("EVENT_BUS_ARN", "default", log),
	}
}

type CatalogConfig struct {
	BulkDataURL     string
	BulkDataType    string
	UpdateFrequency int
	ScratchPath     string
	ArchiveBucket   string
}

const defaultUpdateFrequency = 7

func LoadCatalogConfig(log *logger.Logger) CatalogConfig {
	freq := GetEnvAsInt("CARDS_UPDATE_FREQUENCY", defaultUpdateFrequency, log)
	if freq < 1 {
		if log != nil {
			log.Warn("CARDS_UPDATE_FREQUENCY must be at least one day, using default",
				"value", freq, "default", defaultUpdateFrequency)
		}
		freq = defaultUpdateFrequency
	}
	return CatalogConfig{
		BulkDataURL:     GetEnv("BULK_DATA_URL", "https://api.scryfall.com/bulk-data", log),
		BulkDataType:    GetEnv("BULK_DATA_TYPE", "default_cards", log),
		UpdateFrequency: freq,
		ScratchPath:     GetEnv("CARD_JSON_LOCATION", "/tmp/default-cards.json", log),
		ArchiveBucket:   GetEnv("CATALOG_ARCHIVE_BUCKET", "", log),
	}
}

type SeedConfig struct {
	UserID      string
	MaxRecords  int
	ScratchPath string
}

func LoadSeedConfig(log *logger.Logger) SeedConfig {
	return SeedConfig{
		UserID:      GetEnv("USERID", "", log),
		MaxRecords:  GetEnvAsInt("SEED_MAX_RECORDS", 13000, log),
		ScratchPath: GetEnv("CARD_JSON_LOCATION", "/tmp/default-cards.json", log),
	}
}

type MirrorConfig struct {
	Addr     string
	DataPath string
	BaseURL  string
}

func LoadMirrorConfig(log *logger.Logger) MirrorConfig {
	return MirrorConfig{
		Addr:     GetEnv("HTTP_ADDR", ":9000", log),
		DataPath: GetEnv("MIRROR_DATA_PATH", "data/default-cards.json", log),
		BaseURL:  GetEnv("MIRROR_BASE_URL", "http://localhost:9000", log),
	}
}
