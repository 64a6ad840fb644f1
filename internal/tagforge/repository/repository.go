// Package repository 提供数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jimyag/tagforge/internal/tagforge/repository/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO
)

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例
func New(dbPath string) (*Repository, error) {
	// 确保数据库目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite 只允许一个写连接，所有请求共享同一个连接串行执行
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.Tag{},
		&model.VariableValue{},
		&model.GlobalSettings{},
		&model.Submission{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := createIndexes(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Transaction 在事务中执行 fn，fn 返回错误时回滚
// fn 内只能使用传入的 tx，不能使用外层的 Repository
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Tags 返回标签仓库
func (r *Repository) Tags() TagRepository {
	return NewTagRepository(r.db)
}

// Values 返回变量值仓库
func (r *Repository) Values() VariableValueRepository {
	return NewVariableValueRepository(r.db)
}

// Settings 返回全局设置仓库
func (r *Repository) Settings() SettingsRepository {
	return NewSettingsRepository(r.db)
}

// Submissions 返回提交记录仓库
func (r *Repository) Submissions() SubmissionRepository {
	return NewSubmissionRepository(r.db)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsNotFound 是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// createIndexes 创建额外的唯一约束
func createIndexes(db *gorm.DB) error {
	// 同一工作区内标签 ID 唯一
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_unique
		ON tags(workspace, tag_id)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on tags: %w", err)
	}

	// 同一工作区内变量值 ID 唯一
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_variable_values_unique
		ON variable_values(workspace, value_id)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on variable_values: %w", err)
	}

	return nil
}
