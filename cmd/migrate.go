package cmd

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/anoixa/imgdrop/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrateCmd 建表
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the images table",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSchemaMigration(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

// migrateCopyCmd 在两个数据库之间复制图片
var migrateCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy stored images to another database",
	Long: `Copy every row of the images table from a source database to a target database.

Examples:
  # Move from SQLite to PostgreSQL
  imgdrop migrate copy --from-sqlite ./data/images.db --to-postgres "host=localhost user=postgres password=secret dbname=imgdrop port=5432"

  # Replace rows that already exist in the target
  imgdrop migrate copy --from-sqlite ./data/images.db --to-postgres "..." --on-conflict=overwrite`,
	Run: func(cmd *cobra.Command, args []string) {
		fromType, _ := cmd.Flags().GetString("from-type")
		toType, _ := cmd.Flags().GetString("to-type")
		fromDSN, _ := cmd.Flags().GetString("from-dsn")
		toDSN, _ := cmd.Flags().GetString("to-dsn")
		fromSQLite, _ := cmd.Flags().GetString("from-sqlite")
		toPostgres, _ := cmd.Flags().GetString("to-postgres")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		onConflict, _ := cmd.Flags().GetString("on-conflict")

		if fromSQLite != "" {
			fromType, fromDSN = "sqlite", fromSQLite
		}
		if toPostgres != "" {
			toType, toDSN = "postgres", toPostgres
		}

		if err := runCopy(fromType, fromDSN, toType, toDSN, skipConfirm, batchSize, onConflict); err != nil {
			log.Fatalf("Copy failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateCopyCmd)

	migrateCopyCmd.Flags().String("from-type", "", "Source database type (sqlite, postgres)")
	migrateCopyCmd.Flags().String("to-type", "", "Target database type (sqlite, postgres)")
	migrateCopyCmd.Flags().String("from-dsn", "", "Source database DSN/connection string")
	migrateCopyCmd.Flags().String("to-dsn", "", "Target database DSN/connection string")
	migrateCopyCmd.Flags().String("from-sqlite", "", "Source SQLite file path (shortcut)")
	migrateCopyCmd.Flags().String("to-postgres", "", "Target PostgreSQL connection string (shortcut)")
	migrateCopyCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	migrateCopyCmd.Flags().Int("batch-size", 100, "Rows read from the source per batch")
	migrateCopyCmd.Flags().String("on-conflict", "skip", "Conflict resolution strategy: skip (default), overwrite, error")
}

// runSchemaMigration 对配置中的数据库执行 AutoMigrate
func runSchemaMigration() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	factory, err := database.NewFactory(cfg)
	if err != nil {
		return err
	}
	defer factory.Close()

	return factory.AutoMigrate()
}

// runCopy 执行跨库复制
func runCopy(fromType, fromDSN, toType, toDSN string, skipConfirm bool, batchSize int, onConflict string) error {
	strategy, err := database.ParseConflictStrategy(onConflict)
	if err != nil {
		return err
	}
	if fromType == "" || toType == "" {
		return fmt.Errorf("both --from-type and --to-type are required")
	}
	if fromDSN == "" || toDSN == "" {
		return fmt.Errorf("both --from-dsn and --to-dsn (or shortcuts) are required")
	}
	if fromType == toType && fromDSN == toDSN {
		return fmt.Errorf("source and target databases are the same")
	}

	log.Printf("Copying images from %s to %s", fromType, toType)
	log.Printf("Source: %s", maskDSN(fromDSN))
	log.Printf("Target: %s", maskDSN(toDSN))
	log.Printf("Conflict strategy: %s", strategy)

	sourceDB, err := openDatabase(fromType, fromDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer closeDatabase(sourceDB)

	targetDB, err := openDatabase(toType, toDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	defer closeDatabase(targetDB)

	if !skipConfirm {
		fmt.Println("\nWarning: This will copy all images from source to target database.")
		fmt.Printf("Conflict resolution strategy: %s\n", strategy)
		fmt.Print("Do you want to continue? [y/N]: ")
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Copy cancelled.")
			return nil
		}
	}

	stats, err := database.CopyImages(context.Background(), sourceDB, targetDB, batchSize, strategy)
	if stats != nil {
		printCopyStats(stats)
	}
	if err != nil {
		return err
	}

	log.Println("Copy completed successfully!")
	return nil
}

// openDatabase 打开数据库连接
func openDatabase(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var dsnPasswordPattern = regexp.MustCompile(`(?i)(password=)('[^']*'|\S+)`)

// maskDSN 隐藏连接串中的密码后再截断
func maskDSN(dsn string) string {
	masked := dsn
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		masked = u.Redacted()
	}
	masked = dsnPasswordPattern.ReplaceAllString(masked, "${1}xxxxx")
	if len(masked) > 80 {
		return masked[:80] + "..."
	}
	return masked
}

// printCopyStats 打印复制统计
func printCopyStats(stats *database.TransferStats) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("          Copy Statistics")
	fmt.Println("========================================")
	fmt.Printf("Source images:     %d\n", stats.Total)
	fmt.Printf("Images copied:     %d\n", stats.Copied)
	fmt.Printf("Skipped records:   %d\n", stats.Skipped)
	fmt.Printf("Overwritten:       %d\n", stats.Overwritten)
	fmt.Println("========================================")
}
