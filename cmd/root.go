package cmd

import (
	"os"

	"github.com/anoixa/imgdrop/config"
	"github.com/anoixa/imgdrop/utils"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgdrop",
	Short: "A minimal image hosting service",
	Run: func(cmd *cobra.Command, args []string) {
		serveCmd.Run(cmd, args)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (eg: /etc/imgdrop/.env)")
}

// loadConfig 读取配置并按配置初始化日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	utils.SetupLogger(cfg.LogLevel, config.IsDevelopment())
	return cfg, nil
}
