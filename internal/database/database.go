package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"plantopia_back_end/internal/config"
)

// Connections regroupe les clients ouverts au démarrage. Un champ nil signifie
// que l'intégration n'est pas configurée.
type Connections struct {
	Mongo  *mongo.Client
	DB     *mongo.Database
	Redis  *redis.Client
	MinIO  *minio.Client
	Scylla *gocql.Session
}

// Connect ouvre MongoDB (obligatoire si MONGO_URI est défini) puis les
// intégrations optionnelles. Une intégration optionnelle en échec est
// désactivée avec un avertissement.
func Connect(cfg config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conns := &Connections{}

	if cfg.MongoURI != "" {
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		conns.Mongo = client
		conns.DB = client.Database(cfg.MongoDB)
		if err := EnsureIndexes(ctx, conns.DB); err != nil {
			log.Printf("⚠️ Index MongoDB non créés: %v", err)
		}
	} else {
		log.Println("⚠️ MONGO_URI absent : stockage en mémoire")
	}

	if cfg.RedisHost != "" {
		rdb, err := connectRedis(ctx, cfg)
		if err != nil {
			log.Printf("⚠️ Redis désactivé: %v", err)
		} else {
			conns.Redis = rdb
		}
	}

	if cfg.MinIO.Enabled() {
		mc, err := connectMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Printf("⚠️ MinIO désactivé: %v", err)
		} else {
			conns.MinIO = mc
		}
	}

	if cfg.Scylla.Enabled() {
		session, err := connectScylla(cfg.Scylla)
		if err != nil {
			log.Printf("⚠️ ScyllaDB désactivé: %v", err)
		} else {
			conns.Scylla = session
		}
	}

	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Fermeture Redis: %v", err)
		}
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Printf("⚠️ Déconnexion MongoDB: %v", err)
		}
		log.Println("🔌 MongoDB déconnecté")
	}
}

// =============================================
// MONGODB
// =============================================

// ConnectMongo ouvre le pool partagé par tous les handlers.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Println("✅ Connecté à MongoDB")
	return client, nil
}

// EnsureIndexes : uid unique sur users, tri par date sur orders et blogs.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("index users: %w", err)
	}
	for _, name := range []string{"orders", "blogs"} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		}); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	log.Println("✅ Connecté à Redis")
	return rdb, nil
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("vérification bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("création bucket: %w", err)
		}
		log.Println("🪣 Bucket créé :", cfg.Bucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.Bucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.Endpoint)
	return client, nil
}

// =============================================
// SCYLLA DB
// =============================================
func connectScylla(cfg config.ScyllaConfig) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("session keyspace %s: %w", cfg.Keyspace, err)
	}
	if err := EnsureAuditTable(session); err != nil {
		session.Close()
		return nil, err
	}

	log.Printf("✅ Session ScyllaDB pour keyspace '%s'", cfg.Keyspace)
	return session, nil
}
