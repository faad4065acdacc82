package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"

	// register table migrations
	_ "github.com/ethrahere/curatoor/store/signer"
	_ "github.com/ethrahere/curatoor/store/user"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate users and user_signers tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		cmd.Println("migrate database done")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
