package cmd

import (
	"fmt"
	"time"

	"github.com/anoixa/imgdrop/storage"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cleanCmd 清理暂存目录
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean stale staging files",
	Long: `Clean files left in the staging directory by interrupted uploads.

By default only files older than staging_max_age are removed.

Examples:
  imgdrop clean
  imgdrop clean --all --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if err := runClean(all, dryRun); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("all", false, "Remove every staging file regardless of age")
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
}

// runClean 执行清理
func runClean(all, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	staging, err := storage.NewLocalStorage(cfg.StagingDir)
	if err != nil {
		return err
	}

	removed, err := cleanStaging(staging, cfg.StagingMaxAge, all, dryRun, time.Now())
	if err != nil {
		return err
	}

	action := "Removed"
	if dryRun {
		action = "Would remove"
	}
	for _, name := range removed {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("%s %d staging files from %s\n", action, len(removed), staging.BasePath())
	return nil
}

// cleanStaging all 为 true 时以 now 为截止时间
func cleanStaging(staging *storage.LocalStorage, maxAge time.Duration, all, dryRun bool, now time.Time) ([]string, error) {
	cutoff := now
	if !all {
		if maxAge <= 0 {
			return nil, fmt.Errorf("staging_max_age must be positive, got %s", maxAge)
		}
		cutoff = now.Add(-maxAge)
	}
	return staging.CleanOlderThan(cutoff, dryRun)
}
