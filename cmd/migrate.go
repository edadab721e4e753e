package cmd

import (
	"log"

	"github.com/anoixa/tryon-server/config"
	"github.com/anoixa/tryon-server/database"
	"github.com/spf13/cobra"
)

// migrateCmd 手动执行数据库迁移
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
		cfg := config.Get()

		factory, err := database.NewFactory(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer factory.Close()

		if err := factory.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		log.Println("Database migration completed.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
