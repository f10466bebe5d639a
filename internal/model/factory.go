package model

import (
	"fmt"
	"labsite/internal/config"
	"labsite/internal/entity"
	"labsite/internal/model/memory"
	"labsite/internal/model/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
	DBTypeMemory   = "memory"
)

// RepositoryFactory 根据数据库类型创建对应的仓库实现
type RepositoryFactory struct{}

// NewRepositoryFactory 创建新的仓库工厂
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

// InitStores 初始化仓库的辅助函数
func InitStores(cfg *config.Config) (*Stores, error) {
	return NewRepositoryFactory().CreateStores(cfg)
}

// CreateStores 根据配置创建对应的仓库实现
func (f *RepositoryFactory) CreateStores(cfg *config.Config) (*Stores, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBType {
	case DBTypeMemory:
		return NewMemoryStores(), nil
	case DBTypeMySQL:
		db, err = f.openMySQL(cfg)
	case "", DBTypeSQLite:
		db, err = f.openSQLite(cfg)
	case DBTypePostgres:
		db, err = f.openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}

	// 自动迁移数据库表结构
	if err := MigrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return NewGormStores(db), nil
}

// openMySQL 创建 MySQL 连接
func (f *RepositoryFactory) openMySQL(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		// 从各个配置项构建 DSN
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
	}

	db, err := OpenGormDB(mysql.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	return db, nil
}

// openSQLite 创建 SQLite 连接
func (f *RepositoryFactory) openSQLite(cfg *config.Config) (*gorm.DB, error) {
	filePath := cfg.DBPath
	if filePath == "" {
		filePath = "datas/labsite.db" // 默认 SQLite 数据库文件
	}

	// SQLite 会在连接时自动创建 .db 文件，但前提是目录已存在
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	db, err := OpenGormDB(sqlite.Open(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	return db, nil
}

// openPostgres 创建 PostgreSQL 连接
func (f *RepositoryFactory) openPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	}

	db, err := OpenGormDB(postgres.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return db, nil
}

// OpenGormDB opens a connection with the shared GORM settings.
func OpenGormDB(dialector gorm.Dialector) (*gorm.DB, error) {
	// 配置 GORM 日志
	gormLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		// unique index violations come back as gorm.ErrDuplicatedKey
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateSchema 迁移数据库表结构
func MigrateSchema(db *gorm.DB) error {
	models := []interface{}{
		&entity.DbUser{},
		&entity.DbAccessRequest{},
		&entity.DbContactMessage{},
	}
	models = append(models, entity.ContentModels()...)
	return db.AutoMigrate(models...)
}

// NewGormStores wires every store to db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Repo:              sql.NewGormRepository(db),
		Datasets:          sql.NewContentStore[entity.Dataset](db),
		Prototypes:        sql.NewContentStore[entity.Prototype](db),
		WorkingPapers:     sql.NewContentStore[entity.WorkingPaper](db),
		SocialPosts:       sql.NewContentStore[entity.SocialPost](db),
		LiteratureReviews: sql.NewContentStore[entity.LiteratureReview](db),
		ResearchThemes:    sql.NewContentStore[entity.ResearchTheme](db),
		Updates:           sql.NewContentStore[entity.Update](db),
		ResearchArtifacts: sql.NewContentStore[entity.ResearchArtifact](db),
		ExternalPapers:    sql.NewContentStore[entity.ExternalPaper](db),
	}
}

// NewMemoryStores keeps everything in process memory.
func NewMemoryStores() *Stores {
	return &Stores{
		Repo:              memory.NewRepository(),
		Datasets:          memory.NewContentStore[entity.Dataset](),
		Prototypes:        memory.NewContentStore[entity.Prototype](),
		WorkingPapers:     memory.NewContentStore[entity.WorkingPaper](),
		SocialPosts:       memory.NewContentStore[entity.SocialPost](),
		LiteratureReviews: memory.NewContentStore[entity.LiteratureReview](),
		ResearchThemes:    memory.NewContentStore[entity.ResearchTheme](),
		Updates:           memory.NewContentStore[entity.Update](),
		ResearchArtifacts: memory.NewContentStore[entity.ResearchArtifact](),
		ExternalPapers:    memory.NewContentStore[entity.ExternalPaper](),
	}
}
