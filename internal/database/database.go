package database

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// --- Clients Globaux ---
var (
	Postgres *sqlx.DB
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
)

// Buckets MinIO
const (
	BucketProducts = "products"
	BucketReels    = "reels"
)

// ConnectDatabases initialise toutes les connexions. Postgres et Redis sont
// obligatoires, Elasticsearch et MinIO sont optionnels (dégradation loggée).
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connectPostgres()
	connectRedis(ctx)
	connectElastic()
	connectMinIO(ctx)

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// POSTGRESQL
// =============================================
func connectPostgres() {
	connStr := os.Getenv("DATABASE_CONNECTION_STR")
	if connStr == "" {
		log.Fatal("❌ DATABASE_CONNECTION_STR manquant dans .env")
	}

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Fatalf("❌ Erreur connexion PostgreSQL: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	Postgres = db
	log.Println("✅ Connecté à PostgreSQL")
}

// RunMigrations applique les migrations SQL au démarrage
func RunMigrations() {
	connStr := os.Getenv("DATABASE_CONNECTION_STR")
	migRoot := os.Getenv("MIGRATIONS_ROOT")
	if migRoot == "" {
		migRoot = "database/migrations"
	}

	mig, err := migrate.New("file://"+migRoot, connStr)
	if err != nil {
		log.Fatalf("❌ Erreur initialisation migrations: %v", err)
	}

	if err := mig.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("❌ Erreur migrations: %v", err)
		}
		log.Println("✅ Schéma déjà à jour")
		return
	}
	log.Println("✅ Migrations appliquées")
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// ELASTICSEARCH (optionnel — fallback SQL si absent)
// =============================================
func connectElastic() {
	elasticURL := os.Getenv("ELASTIC_URL")
	if elasticURL == "" {
		log.Println("⚠️ ELASTIC_URL non configuré — recherche SQL uniquement")
		return
	}

	cfg := elasticsearch.Config{
		Addresses: []string{elasticURL},
		Username:  os.Getenv("ELASTIC_USER"),
		Password:  os.Getenv("ELASTIC_PASSWORD"),
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Println("⚠️ Erreur création client Elasticsearch:", err)
		return
	}

	res, err := client.Info()
	if err != nil {
		log.Println("⚠️ Elasticsearch injoignable — recherche SQL uniquement:", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT non configuré — uploads désactivés")
		return
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatal("❌ Erreur connexion MinIO:", err)
	}

	for _, bucketName := range []string{BucketProducts, BucketReels} {
		exists, err := client.BucketExists(ctx, bucketName)
		if err != nil {
			log.Fatal("❌ Erreur vérification bucket MinIO:", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
				log.Fatal("❌ Erreur création bucket MinIO:", err)
			}
			log.Println("🪣 Bucket créé :", bucketName)
		}
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", endpoint)
}
