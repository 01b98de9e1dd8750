package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"autocontract/internal/config/connections/mongo"
	"autocontract/internal/config/connections/postgres"
	"autocontract/internal/config/connections/s3"
	"autocontract/internal/services/documents"

	"github.com/joho/godotenv"
)

type Paths struct {
	ClientsDB           string
	ContractsDB         string
	ClientsSheet        string
	ContractsSheet      string
	ContractTemplate    string
	InvoiceTemplate     string
	InvoiceCardTemplate string
	OutputDir           string
}

type Config struct {
	Port           string
	AppName        string
	ContractSuffix string
	Currency       string
	Paths          Paths
	Company        documents.Company

	// ArchivePrefix is the key prefix of archived documents in the S3 bucket.
	ArchivePrefix string

	// Optional connections, nil when not configured.
	S3       *s3.S3
	Mongo    *mongo.Mongo
	Postgres *postgres.Postgres
}

// Init loads .env and the environment. Workbook, template and company
// settings always have defaults; MongoDB, PostgreSQL and S3 are connected only
// when their host (or MONGO_URI) variables are set, and a failed connection is fatal.
func Init(ctx context.Context) *Config {
	_ = godotenv.Load()

	dataDir := getenv("DATA_DIR", "data")
	templatesDir := getenv("TEMPLATES_DIR", "templates")

	cfg := &Config{
		Port:           getenv("SERVER_PORT", "8070"),
		AppName:        getenv("APP_NAME", "AutoContractManager"),
		ContractSuffix: getenv("CONTRACT_SUFFIX", "-ИП"),
		Currency:       getenv("CURRENCY", "₽"),
		ArchivePrefix:  getenv("AWS_ARCHIVE_PREFIX", "documents"),
		Paths: Paths{
			ClientsDB:           getenv("CLIENTS_DB_PATH", filepath.Join(dataDir, "database_of_contracts.xlsx")),
			ContractsDB:         getenv("CONTRACTS_DB_PATH", filepath.Join(dataDir, "contracts_registry.xlsx")),
			ClientsSheet:        getenv("CLIENTS_SHEET", "Folder"),
			ContractsSheet:      getenv("CONTRACTS_SHEET", "Registry"),
			ContractTemplate:    templatePath(templatesDir, getenv("CONTRACT_TEMPLATE", "contract_template.docx")),
			InvoiceTemplate:     templatePath(templatesDir, getenv("INVOICE_TEMPLATE", "invoice_template.docx")),
			InvoiceCardTemplate: templatePath(templatesDir, getenv("INVOICE_CARD_TEMPLATE", "invoice_card_template.docx")),
			OutputDir:           getenv("OUTPUT_DIR", "documents_ready"),
		},
		Company: documents.Company{
			Name:        getenv("COMPANY_NAME", "ИП Петров П.П."),
			INN:         getenv("COMPANY_INN", "123456789012"),
			BankAccount: getenv("BANK_ACCOUNT", "40817810123456789012"),
			BankName:    getenv("BANK_NAME", "Сбербанк"),
			BankBIC:     getenv("BANK_BIC", "044525225"),
			CorrAccount: getenv("BANK_CORR_ACCOUNT", "30101810400000000225"),
		},
	}

	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		s3c, err := s3.NewConnection(s3.ConnectionInfo{
			Endpoint:  endpoint,
			AccessKey: getenv("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretKey: getenv("AWS_SECRET_ACCESS_KEY", "minioadmin"),
			Region:    getenv("AWS_DEFAULT_REGION", "us-east-1"),
			Bucket:    getenv("AWS_BUCKET", "documents"),
			UseSSL:    getenv("AWS_USE_SSL", "false") == "true",
		})
		if err != nil {
			log.Fatal("S3 connect error:", err)
		}
		if err := s3c.EnsureBucket(ctx); err != nil {
			log.Fatal("S3 bucket error:", err)
		}
		cfg.S3 = s3c
	}

	if host, uri := os.Getenv("MONGO_HOST"), os.Getenv("MONGO_URI"); host != "" || uri != "" {
		mg, err := mongo.NewConnection(ctx, mongo.ConnectionInfo{
			URI:        uri,
			Scheme:     getenv("MONGO_SCHEME", "mongodb"),
			User:       os.Getenv("MONGO_USER"),
			Password:   os.Getenv("MONGO_PASSWORD"),
			Host:       host,
			Port:       getenv("MONGO_PORT", "27017"),
			DB:         getenv("MONGO_DB", "autocontract"),
			AuthSource: os.Getenv("MONGO_AUTH_SOURCE"),
			AppName:    cfg.AppName,
		})
		if err != nil {
			log.Fatal("Mongo connect error:", err)
		}
		cfg.Mongo = mg
	}

	if host := os.Getenv("PG_HOST"); host != "" {
		pg, err := postgres.NewConnection(ctx, postgres.ConnectionInfo{
			Host:     host,
			Port:     getenv("PG_PORT", "5432"),
			User:     getenv("PG_USER", "root"),
			Password: os.Getenv("PG_PASSWORD"),
			DB:       getenv("PG_DB", "autocontract"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		})
		if err != nil {
			log.Fatal("Postgres connect error:", err)
		}
		cfg.Postgres = pg
	}

	return cfg
}

// EnsureDirs creates the output directory and the workbook directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{
		c.Paths.OutputDir,
		filepath.Dir(c.Paths.ClientsDB),
		filepath.Dir(c.Paths.ContractsDB),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// CheckConnections pings the configured connections and checks that both
// workbooks exist. Unconfigured connections are not errors.
func (c *Config) CheckConnections(ctx context.Context) error {
	var errs []error

	if c.Postgres != nil {
		if c.Postgres.Pool == nil {
			errs = append(errs, errors.New("postgres not initialized"))
		} else if err := c.Postgres.Pool.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres ping failed: %w", err))
		}
	}

	if c.Mongo != nil {
		if c.Mongo.Client == nil {
			errs = append(errs, errors.New("mongo not initialized"))
		} else if err := c.Mongo.Client.Ping(ctx, nil); err != nil {
			errs = append(errs, fmt.Errorf("mongo ping failed: %w", err))
		}
	}

	if c.S3 != nil {
		if c.S3.Client == nil {
			errs = append(errs, errors.New("s3 not initialized"))
		} else if ok, err := c.S3.Client.BucketExists(ctx, c.S3.Bucket); err != nil {
			errs = append(errs, fmt.Errorf("s3 bucket check failed: %w", err))
		} else if !ok {
			errs = append(errs, fmt.Errorf("s3 bucket %q not found", c.S3.Bucket))
		}
	}

	for _, p := range []string{c.Paths.ClientsDB, c.Paths.ContractsDB} {
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, fmt.Errorf("workbook %s: %w", p, err))
		}
	}

	return errors.Join(errs...)
}

// templatePath joins bare file names onto the templates directory. Absolute
// paths and http(s):// or s3:// locations are kept as they are.
func templatePath(dir, name string) string {
	if filepath.IsAbs(name) || isRemote(name) || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(dir, name)
}

func isRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") || strings.HasPrefix(loc, "s3://")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
